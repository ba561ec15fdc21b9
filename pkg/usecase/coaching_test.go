package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/notelab/braindump/pkg/domain/model"
	"github.com/notelab/braindump/pkg/domain/types"
	"github.com/notelab/braindump/pkg/repository/memory"
	"github.com/notelab/braindump/pkg/usecase"
)

type stubDigest struct {
	text    string
	entries []*model.Entry
}

func (s *stubDigest) Build(ctx context.Context, entries []*model.Entry) (string, error) {
	s.entries = entries
	return s.text, nil
}

type stubNotifier struct {
	posts map[string][]string
	fail  map[string]error
}

func (s *stubNotifier) Post(ctx context.Context, channelID, text string) error {
	if err := s.fail[channelID]; err != nil {
		return err
	}
	if s.posts == nil {
		s.posts = make(map[string][]string)
	}
	s.posts[channelID] = append(s.posts[channelID], text)
	return nil
}

func TestCoachingRegister(t *testing.T) {
	uc := usecase.New(memory.New())

	reg, err := uc.Coaching.Register("C012345", "daily")
	gt.NoError(t, err).Required()
	gt.Value(t, reg.ID == "").Equal(false)
	gt.Value(t, reg.Channel).Equal("C012345")
	gt.Value(t, reg.Cadence).Equal("daily")

	gt.Array(t, uc.Coaching.Registrations()).Length(1)

	gt.NoError(t, uc.Coaching.Unregister(reg.ID)).Required()
	gt.Array(t, uc.Coaching.Registrations()).Length(0)
}

func TestCoachingRegisterDefaults(t *testing.T) {
	uc := usecase.New(memory.New())

	reg, err := uc.Coaching.Register("C012345", "")
	gt.NoError(t, err).Required()
	gt.Value(t, reg.Cadence).Equal("daily")

	_, err = uc.Coaching.Register("", "daily")
	gt.Error(t, err)
}

func TestCoachingUnregisterUnknown(t *testing.T) {
	uc := usecase.New(memory.New())

	err := uc.Coaching.Unregister("no-such-id")
	gt.Error(t, err)
	gt.Bool(t, errors.Is(err, types.ErrNotFound)).True()
}

func TestSendDigest(t *testing.T) {
	dg := &stubDigest{text: "today: review docker and git"}
	notifier := &stubNotifier{}
	uc := usecase.New(memory.New(),
		usecase.WithDigest(dg),
		usecase.WithNotifier(notifier),
	)

	uc.Entries.Add(t.Context(), &model.Entry{Domain: types.DomainSkills, Text: "docker notes"})
	uc.Entries.Wait()

	_, err := uc.Coaching.Register("C-one", "daily")
	gt.NoError(t, err).Required()
	_, err = uc.Coaching.Register("C-two", "weekly")
	gt.NoError(t, err).Required()

	text, err := uc.Coaching.SendDigest(t.Context())
	gt.NoError(t, err).Required()
	gt.Value(t, text).Equal("today: review docker and git")

	// Digest is built from the live cache and delivered to every channel
	gt.Array(t, dg.entries).Length(1)
	gt.Array(t, notifier.posts["C-one"]).Length(1)
	gt.Array(t, notifier.posts["C-two"]).Length(1)
}

func TestSendDigestPartialFailure(t *testing.T) {
	dg := &stubDigest{text: "digest"}
	notifier := &stubNotifier{fail: map[string]error{"C-bad": errors.New("channel_not_found")}}
	uc := usecase.New(memory.New(),
		usecase.WithDigest(dg),
		usecase.WithNotifier(notifier),
	)

	_, err := uc.Coaching.Register("C-bad", "daily")
	gt.NoError(t, err).Required()
	_, err = uc.Coaching.Register("C-good", "daily")
	gt.NoError(t, err).Required()

	_, err = uc.Coaching.SendDigest(t.Context())
	gt.NoError(t, err).Required()
	gt.Array(t, notifier.posts["C-good"]).Length(1)
}

func TestSendDigestNotConfigured(t *testing.T) {
	uc := usecase.New(memory.New())

	_, err := uc.Coaching.SendDigest(t.Context())
	gt.Error(t, err)
	gt.Bool(t, errors.Is(err, types.ErrNotConfigured)).True()
}
