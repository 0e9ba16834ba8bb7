// Package analytics produces summary statistics over stored patient records
// for the demo dashboard.
package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/ayushbridge/emr/internal/domain/patient"
)

// ConditionCount is one row of the common-conditions breakdown.
type ConditionCount struct {
	Diagnosis string `json:"diagnosis"`
	Count     int    `json:"count"`
}

// Summary is the analytics payload.
type Summary struct {
	TotalPatients      int64            `json:"total_patients"`
	CommonConditions   []ConditionCount `json:"common_conditions"`
	MappingSuccessRate float64          `json:"mapping_success_rate"`
}

// topConditions caps the common-conditions list.
const topConditions = 5

// Service computes the Summary from the patient repository.
type Service struct {
	patients patient.Repository
	log      zerolog.Logger
}

func NewService(patients patient.Repository, log zerolog.Logger) *Service {
	return &Service{patients: patients, log: log.With().Str("service", "analytics").Logger()}
}

// Summarize walks all patient records and aggregates counts. The mapping
// success rate is the share of NAMASTE-coded records that also carry an
// ICD-11 code, as a percentage rounded to two decimals.
func (s *Service) Summarize(ctx context.Context) (*Summary, error) {
	all, err := s.patients.List(ctx, patient.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}

	conditions := map[string]int{}
	var withNamaste, mapped int
	for _, p := range all {
		if p.Diagnosis != nil && *p.Diagnosis != "" {
			conditions[*p.Diagnosis]++
		}
		if p.NamasteCode != nil && *p.NamasteCode != "" {
			withNamaste++
			if p.ICD11Code != nil && *p.ICD11Code != "" {
				mapped++
			}
		}
	}

	common := make([]ConditionCount, 0, len(conditions))
	for diag, n := range conditions {
		common = append(common, ConditionCount{Diagnosis: diag, Count: n})
	}
	sort.Slice(common, func(i, j int) bool {
		if common[i].Count != common[j].Count {
			return common[i].Count > common[j].Count
		}
		return common[i].Diagnosis < common[j].Diagnosis
	})
	if len(common) > topConditions {
		common = common[:topConditions]
	}

	rate := 0.0
	if withNamaste > 0 {
		rate = math.Round(float64(mapped)/float64(withNamaste)*100*100) / 100
	}

	return &Summary{
		TotalPatients:      int64(len(all)),
		CommonConditions:   common,
		MappingSuccessRate: rate,
	}, nil
}
