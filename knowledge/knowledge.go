package knowledge

import (
	"embed"
	"encoding/json"
	"fmt"
	"sync"
)

//go:embed data/*.json
var dataFS embed.FS

// Method describes one LCIA method from the curated method guidance document.
type Method struct {
	Type          string   `json:"type"`
	RegionalFocus string   `json:"regional_focus"`
	Pros          []string `json:"pros"`
	Cons          []string `json:"cons"`
	BestFor       []string `json:"best_for"`
	UseCases      []string `json:"use_cases"`
}

// Database describes one backing database from the curated database guidance document.
type Database struct {
	Name        string   `json:"name"`
	Strengths   []string `json:"strengths"`
	BestFor     []string `json:"best_for"`
	Limitations []string `json:"limitations"`
	// Alternatives lists database ids to suggest when this database has no data.
	Alternatives []string `json:"alternatives"`
	// Domains tags the database with the product domains it covers well.
	Domains []string `json:"domains"`
}

type methodGuidance struct {
	Methods map[string]Method `json:"methods"`
	// RecommendedByDatabase maps database id to the method name to prefer there.
	RecommendedByDatabase map[string]string `json:"recommended_by_database"`
}

type databaseGuidance struct {
	Databases map[string]Database `json:"databases"`
	// DomainKeywords maps a product domain to the query substrings that signal it.
	DomainKeywords map[string][]string `json:"domain_keywords"`
}

var (
	loadOnce sync.Once
	loadErr  error
	methods  methodGuidance
	dbs      databaseGuidance
)

func load() error {
	loadOnce.Do(func() {
		raw, err := dataFS.ReadFile("data/lcia_methods.json")
		if err != nil {
			loadErr = fmt.Errorf("error reading method guidance: %w", err)
			return
		}
		if err := json.Unmarshal(raw, &methods); err != nil {
			loadErr = fmt.Errorf("error parsing method guidance: %w", err)
			return
		}

		raw, err = dataFS.ReadFile("data/databases_guidance.json")
		if err != nil {
			loadErr = fmt.Errorf("error reading database guidance: %w", err)
			return
		}
		if err := json.Unmarshal(raw, &dbs); err != nil {
			loadErr = fmt.Errorf("error parsing database guidance: %w", err)
		}
	})
	return loadErr
}

// Methods returns the LCIA method guidance keyed by method name.
// The guidance is embedded at build time and parsed once per process.
func Methods() (map[string]Method, error) {
	if err := load(); err != nil {
		return nil, err
	}
	return methods.Methods, nil
}

// RecommendedMethodName returns the preferred method name for a database,
// falling back to ReCiPe 2016 Midpoint (H) when the database is not listed.
func RecommendedMethodName(databaseID string) (string, error) {
	if err := load(); err != nil {
		return "", err
	}
	if name, ok := methods.RecommendedByDatabase[databaseID]; ok {
		return name, nil
	}
	return "ReCiPe 2016 Midpoint (H)", nil
}

// Databases returns the database guidance keyed by database id.
func Databases() (map[string]Database, error) {
	if err := load(); err != nil {
		return nil, err
	}
	return dbs.Databases, nil
}

// DomainKeywords returns the query-substring table used to classify a search
// query into product domains.
func DomainKeywords() (map[string][]string, error) {
	if err := load(); err != nil {
		return nil, err
	}
	return dbs.DomainKeywords, nil
}
