package terminology

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound is returned when a code does not exist in the dataset.
var ErrNotFound = errors.New("code not found")

// ErrNoMapping is returned when a NAMASTE code exists but has no ICD-11
// mapping.
var ErrNoMapping = errors.New("no ICD-11 mapping available")

// icd11Seed is the bundled demonstration dataset: a handful of ICD-11 MMS
// entities plus TM2 pattern codes.
var icd11Seed = []*ICD11Code{
	{Code: "1A00", Title: "Cholera", Module: ModuleMMS},
	{Code: "5A10", Title: "Type 1 diabetes mellitus", Definition: "A metabolic disorder caused by autoimmune destruction of pancreatic beta cells.", Module: ModuleMMS},
	{Code: "5A11", Title: "Type 2 diabetes mellitus", Definition: "A metabolic disorder characterized by insulin resistance and relative insulin deficiency.", Module: ModuleMMS},
	{Code: "MG30.0", Title: "Migraine without aura", Module: ModuleMMS},
	{Code: "RA01", Title: "Acute nasopharyngitis [common cold]", Module: ModuleMMS},
	{Code: "TM2-XY01", Title: "Qi deficiency pattern", Module: ModuleTM2},
	{Code: "TM2-XY02", Title: "Blood stasis pattern", Module: ModuleTM2},
	{Code: "TM2-XY03", Title: "Liver qi stagnation pattern", Module: ModuleTM2},
	{Code: "TM2-XY04", Title: "Damp-heat pattern", Module: ModuleTM2},
	{Code: "TM2-XY05", Title: "Kidney yin deficiency pattern", Module: ModuleTM2},
}

// namasteSeed is the bundled NAMASTE morbidity code sample.
var namasteSeed = []*NamasteCode{
	{Code: "NAM-AYU-001", Title: "Prameha (Diabetes)", Discipline: DisciplineAyurveda},
	{Code: "NAM-AYU-002", Title: "Jwara (Fever)", Discipline: DisciplineAyurveda},
	{Code: "NAM-AYU-003", Title: "Shirashoola (Headache)", Discipline: DisciplineAyurveda},
	{Code: "NAM-AYU-004", Title: "Kasa (Cough)", Discipline: DisciplineAyurveda},
	{Code: "NAM-AYU-005", Title: "Pandu (Anemia)", Discipline: DisciplineAyurveda},
	{Code: "NAM-SID-006", Title: "Neerizhivu (Diabetes)", Discipline: DisciplineSiddha},
	{Code: "NAM-UNA-007", Title: "Dawali (Varicose veins)", Discipline: DisciplineUnani},
}

// namasteMapSeed maps NAMASTE codes to their approximate ICD-11 equivalents.
// Several entries are deliberate approximations; this is a demo dataset.
var namasteMapSeed = map[string]string{
	"NAM-AYU-001": "5A11",
	"NAM-AYU-002": "RA01",
	"NAM-AYU-003": "MG30.0",
	"NAM-AYU-004": "RA01",
	"NAM-AYU-005": "3A00",
	"NAM-SID-006": "5A11",
}

// ICD11RepoMem is an in-memory ICD11Repository over the seed dataset.
type ICD11RepoMem struct {
	codes []*ICD11Code
}

// NewICD11RepoMem creates an in-memory ICD-11 repository with the bundled
// demonstration dataset.
func NewICD11RepoMem() *ICD11RepoMem {
	return &ICD11RepoMem{codes: icd11Seed}
}

func (r *ICD11RepoMem) Search(_ context.Context, keyword string, limit int) ([]*ICD11Code, error) {
	return r.search("", keyword, limit), nil
}

func (r *ICD11RepoMem) SearchModule(_ context.Context, module, keyword string, limit int) ([]*ICD11Code, error) {
	return r.search(module, keyword, limit), nil
}

func (r *ICD11RepoMem) search(module, keyword string, limit int) []*ICD11Code {
	if limit <= 0 {
		limit = 20
	}
	term := strings.ToLower(keyword)
	var results []*ICD11Code
	for _, c := range r.codes {
		if module != "" && c.Module != module {
			continue
		}
		if strings.Contains(strings.ToLower(c.Title), term) || strings.Contains(strings.ToLower(c.Code), term) {
			results = append(results, c)
			if len(results) >= limit {
				break
			}
		}
	}
	return results
}

func (r *ICD11RepoMem) GetByCode(_ context.Context, code string) (*ICD11Code, error) {
	for _, c := range r.codes {
		if strings.EqualFold(c.Code, code) {
			return c, nil
		}
	}
	return nil, ErrNotFound
}

// NamasteRepoMem is an in-memory NamasteRepository over the seed dataset.
type NamasteRepoMem struct {
	codes   []*NamasteCode
	mapping map[string]string
}

// NewNamasteRepoMem creates an in-memory NAMASTE repository with the bundled
// demonstration dataset and mapping.
func NewNamasteRepoMem() *NamasteRepoMem {
	return &NamasteRepoMem{codes: namasteSeed, mapping: namasteMapSeed}
}

func (r *NamasteRepoMem) Search(_ context.Context, keyword string, limit int) ([]*NamasteCode, error) {
	if limit <= 0 {
		limit = 20
	}
	term := strings.ToLower(keyword)
	var results []*NamasteCode
	for _, c := range r.codes {
		if strings.Contains(strings.ToLower(c.Title), term) || strings.Contains(strings.ToLower(c.Code), term) {
			results = append(results, c)
			if len(results) >= limit {
				break
			}
		}
	}
	return results, nil
}

func (r *NamasteRepoMem) GetByCode(_ context.Context, code string) (*NamasteCode, error) {
	for _, c := range r.codes {
		if strings.EqualFold(c.Code, code) {
			return c, nil
		}
	}
	return nil, ErrNotFound
}

func (r *NamasteRepoMem) MapToICD11(_ context.Context, namasteCode string) (string, error) {
	if icd, ok := r.mapping[namasteCode]; ok {
		return icd, nil
	}
	if icd, ok := r.mapping[strings.ToUpper(namasteCode)]; ok {
		return icd, nil
	}
	return "", ErrNoMapping
}
