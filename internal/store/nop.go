package store

import "github.com/amishk599/gradboard/internal/model"

// NopStore discards run records. Used by one-shot commands that should not
// touch the operator's database.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) RecordRun(model.SourceRun) error        { return nil }
func (s *NopStore) LatestRuns() ([]model.SourceRun, error) { return nil, nil }
