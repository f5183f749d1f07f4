package funnel

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	apperrors "github.com/yanqian/ketoslim-funnel/pkg/errors"
)

// StorageKey is the key the answers record is persisted under.
const StorageKey = "formData"

// FormDataStore keeps the live Answers and writes every change through to
// the storage port before it becomes visible.
type FormDataStore struct {
	storage StoragePort
	logger  *slog.Logger
	current Answers
}

// NewFormDataStore constructs a store holding the default answers.
func NewFormDataStore(storage StoragePort, logger *slog.Logger) *FormDataStore {
	return &FormDataStore{
		storage: storage,
		logger:  logger.With("component", "funnel.store"),
		current: DefaultAnswers(),
	}
}

// Current returns the live answers.
func (s *FormDataStore) Current() Answers {
	return s.current
}

// Load restores persisted answers. Missing or unreadable records yield the
// defaults; only a failing backend returns an error.
func (s *FormDataStore) Load(ctx context.Context) (Answers, error) {
	raw, ok, err := s.storage.Get(ctx, StorageKey)
	if err != nil {
		return DefaultAnswers(), apperrors.Wrap("storage_error", "failed to read answers", err)
	}
	if !ok {
		s.current = DefaultAnswers()
		return s.current, nil
	}
	answers, err := decodeAnswers(raw)
	if err != nil {
		s.logger.Warn("discarding malformed answers", "error", err)
		s.current = DefaultAnswers()
		return s.current, nil
	}
	s.current = answers
	return answers, nil
}

// Save replaces the persisted answers.
func (s *FormDataStore) Save(ctx context.Context, answers Answers) error {
	payload, err := json.Marshal(answers)
	if err != nil {
		return apperrors.Wrap("storage_error", "failed to encode answers", err)
	}
	if err := s.storage.Set(ctx, StorageKey, string(payload)); err != nil {
		return apperrors.Wrap("storage_error", "failed to persist answers", err)
	}
	s.current = answers
	return nil
}

// Update merges patch into the current answers and persists the result.
func (s *FormDataStore) Update(ctx context.Context, patch AnswersPatch) (Answers, error) {
	next := s.current.Apply(patch)
	if !next.Gender.Valid() {
		return s.current, apperrors.Wrap("invalid_input", "gender must be male or female", nil)
	}
	if err := s.Save(ctx, next); err != nil {
		return s.current, err
	}
	return next, nil
}

// Reset restores the defaults and removes the persisted record.
func (s *FormDataStore) Reset(ctx context.Context) error {
	if err := s.storage.Delete(ctx, StorageKey); err != nil {
		return apperrors.Wrap("storage_error", "failed to clear answers", err)
	}
	s.current = DefaultAnswers()
	return nil
}

var errUnknownGender = errors.New("unknown gender")

func decodeAnswers(raw string) (Answers, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.DisallowUnknownFields()
	var answers Answers
	if err := dec.Decode(&answers); err != nil {
		return Answers{}, err
	}
	if !answers.Gender.Valid() {
		return Answers{}, errUnknownGender
	}
	return answers, nil
}
