package store

import (
	"encoding/json"
	"fmt"

	"github.com/fxrental/client/internal/model"
)

// SaveDraft persists the whole registration draft under the fixed slot,
// overwriting any prior draft. One draft is in flight at a time.
func SaveDraft(s Store, draft model.RegistrationDraft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	return s.Set(KeyRegisterData, string(data))
}

// LoadDraft returns the persisted draft and whether one exists. A present but
// empty draft is reported as absent so step guards treat it the same way.
func LoadDraft(s Store) (model.RegistrationDraft, bool, error) {
	raw, ok, err := s.Get(KeyRegisterData)
	if err != nil || !ok {
		return model.RegistrationDraft{}, false, err
	}
	var draft model.RegistrationDraft
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		return model.RegistrationDraft{}, false, fmt.Errorf("decode draft: %w", err)
	}
	if draft.Empty() {
		return model.RegistrationDraft{}, false, nil
	}
	return draft, true, nil
}

// ClearDraft removes the persisted draft and the server-issued user id that
// accompanies it.
func ClearDraft(s Store) error {
	if err := s.Delete(KeyRegisterData); err != nil {
		return err
	}
	return s.Delete(KeyUserID)
}
