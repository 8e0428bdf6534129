package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/chancerylabs/chancery/internal/fields"
	"github.com/chancerylabs/chancery/internal/rules"
)

const (
	// DefaultMinSamples is the minimum number of processed documents
	// required before any pattern is inferred.
	DefaultMinSamples = 5

	// suggestionThreshold is the minimum confidence for a finding to be
	// surfaced as a suggested rule.
	suggestionThreshold = 0.8

	// DefaultCreateThreshold is the minimum confidence for AutoCreate to
	// materialize a suggestion without explicit override.
	DefaultCreateThreshold = 0.9

	// analyzerConcurrency bounds the per-field analyzer fan-out.
	analyzerConcurrency = 8
)

// DocumentSource supplies the extracted data of processed documents for a
// document type. Implemented by the documents repository.
type DocumentSource interface {
	ListExtracted(ctx context.Context, documentType string) ([]fields.Map, error)
}

// RuleWriter registers rules idempotently. Implemented by the rules repository.
type RuleWriter interface {
	GetOrCreate(ctx context.Context, cmd rules.CreateCommand) (*rules.Rule, bool, error)
}

// Service mines processed documents for field patterns.
type Service struct {
	docs   DocumentSource
	rules  RuleWriter
	logger *slog.Logger
}

// New creates a pattern analysis service.
func New(docs DocumentSource, writer RuleWriter, logger *slog.Logger) *Service {
	return &Service{
		docs:   docs,
		rules:  writer,
		logger: logger.With("system", "analysis"),
	}
}

// Analyze gathers processed documents of a type, groups extracted values
// per field, and runs the four analyzers over each field. minSamples <= 0
// uses DefaultMinSamples.
func (s *Service) Analyze(ctx context.Context, documentType string, minSamples int) (*Analysis, error) {
	if minSamples <= 0 {
		minSamples = DefaultMinSamples
	}

	maps, err := s.docs.ListExtracted(ctx, documentType)
	if err != nil {
		return nil, fmt.Errorf("load documents for %s: %w", documentType, err)
	}

	if len(maps) < minSamples {
		return &Analysis{
			Status: StatusInsufficientData,
			Message: fmt.Sprintf("need at least %d processed documents, found %d",
				minSamples, len(maps)),
			DocumentType: documentType,
			Suggestions:  []Suggestion{},
		}, nil
	}

	fieldValues := collectFieldValues(maps)

	names := make([]string, 0, len(fieldValues))
	for name := range fieldValues {
		names = append(names, name)
	}
	sort.Strings(names)

	analyses := make(map[string]FieldAnalysis, len(names))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(analyzerConcurrency)

	for _, name := range names {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			fa := analyzeField(fieldValues[name])
			mu.Lock()
			analyses[name] = fa
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("analyze %s: %w", documentType, err)
	}

	suggestions := make([]Suggestion, 0)
	for _, name := range names {
		suggestions = append(suggestions, suggest(documentType, name, analyses[name])...)
	}

	s.logger.Info("pattern analysis completed",
		"document_type", documentType,
		"documents", len(maps),
		"fields", len(names),
		"suggestions", len(suggestions),
	)

	return &Analysis{
		Status:            StatusSuccess,
		DocumentType:      documentType,
		AnalyzedDocuments: len(maps),
		FieldAnalyses:     analyses,
		Suggestions:       suggestions,
	}, nil
}

// AutoCreate reruns Analyze and materializes suggestions at or above the
// confidence threshold as validation rules. Creation is idempotent: a rule
// whose (document_type, field_name, rule_type) already exists is skipped.
// threshold <= 0 uses DefaultCreateThreshold.
func (s *Service) AutoCreate(ctx context.Context, documentType string, threshold float64) (*AutoCreateResult, error) {
	if threshold <= 0 {
		threshold = DefaultCreateThreshold
	}

	analysis, err := s.Analyze(ctx, documentType, 0)
	if err != nil {
		return nil, err
	}
	if analysis.Status != StatusSuccess {
		return &AutoCreateResult{
			Status:       analysis.Status,
			Message:      analysis.Message,
			DocumentType: documentType,
			Created:      []CreatedRule{},
		}, nil
	}

	candidates := make([]Suggestion, 0, len(analysis.Suggestions))
	for _, sg := range analysis.Suggestions {
		if sg.Confidence >= threshold {
			candidates = append(candidates, sg)
		}
	}

	if len(candidates) == 0 {
		return &AutoCreateResult{
			Status:       StatusNoHighConfidence,
			Message:      fmt.Sprintf("no rules met confidence threshold of %v", threshold),
			DocumentType: documentType,
			Analyzed:     len(analysis.Suggestions),
			Created:      []CreatedRule{},
		}, nil
	}

	created := make([]CreatedRule, 0, len(candidates))
	for _, sg := range candidates {
		rule, isNew, err := s.rules.GetOrCreate(ctx, rules.CreateCommand{
			Name:         sg.Name,
			DocumentType: sg.DocumentType,
			FieldName:    sg.FieldName,
			RuleType:     sg.RuleType,
			RulePattern:  sg.RulePattern,
			Description:  sg.Description,
			AutoCreated:  true,
		})
		if err != nil {
			return nil, fmt.Errorf("create rule for %s: %w", sg.FieldName, err)
		}
		if !isNew {
			continue
		}
		created = append(created, CreatedRule{
			ID:         rule.ID,
			Name:       rule.Name,
			FieldName:  rule.FieldName,
			RuleType:   rule.RuleType,
			Confidence: sg.Confidence,
		})
	}

	s.logger.Info("auto-created validation rules",
		"document_type", documentType,
		"candidates", len(candidates),
		"created", len(created),
	)

	return &AutoCreateResult{
		Status:       StatusSuccess,
		DocumentType: documentType,
		Analyzed:     len(analysis.Suggestions),
		Created:      created,
		TotalCreated: len(created),
	}, nil
}

// metadata keys injected by the processing pipeline that carry no field
// semantics and are excluded from induction.
func skipField(name string) bool {
	return name == "raw_text" ||
		name == "extraction_time" ||
		strings.HasPrefix(name, "validation_")
}

// collectFieldValues flattens every document's extracted data and groups
// non-empty values per dot-joined field name.
func collectFieldValues(maps []fields.Map) map[string][]any {
	grouped := make(map[string][]any)
	for _, m := range maps {
		for name, value := range m.Flatten() {
			if skipField(name) || value == nil || value == "" {
				continue
			}
			grouped[name] = append(grouped[name], value)
		}
	}
	return grouped
}

func analyzeField(values []any) FieldAnalysis {
	return FieldAnalysis{
		DataType: analyzeDataType(values),
		Regex:    analyzeRegex(values),
		Range:    analyzeRange(values),
		Enum:     analyzeEnum(values),
	}
}

// suggest converts findings at or above the suggestion threshold into
// candidate rules, in a fixed analyzer order for reproducibility.
func suggest(documentType, fieldName string, fa FieldAnalysis) []Suggestion {
	out := make([]Suggestion, 0, 4)

	if f := fa.DataType; f != nil && f.Confidence >= suggestionThreshold {
		out = append(out, Suggestion{
			Name:         fieldName + "_type_check",
			DocumentType: documentType,
			FieldName:    fieldName,
			RuleType:     rules.TypeDataType,
			RulePattern:  f.Type,
			Description: fmt.Sprintf("validates that %s is of type %s (confidence: %.2f)",
				fieldName, f.Type, f.Confidence),
			Confidence: f.Confidence,
		})
	}

	if f := fa.Regex; f != nil && f.Confidence >= suggestionThreshold {
		out = append(out, Suggestion{
			Name:         fieldName + "_format_check",
			DocumentType: documentType,
			FieldName:    fieldName,
			RuleType:     rules.TypeRegex,
			RulePattern:  f.Pattern,
			Description: fmt.Sprintf("validates %s format as %s (confidence: %.2f)",
				fieldName, f.Name, f.Confidence),
			Confidence: f.Confidence,
		})
	}

	if f := fa.Range; f != nil && f.Confidence >= suggestionThreshold {
		out = append(out, Suggestion{
			Name:         fieldName + "_range_check",
			DocumentType: documentType,
			FieldName:    fieldName,
			RuleType:     rules.TypeRange,
			RulePattern:  fmt.Sprintf("%.2f,%.2f", f.Min, f.Max),
			Description: fmt.Sprintf("validates %s is within range %.2f to %.2f (confidence: %.2f)",
				fieldName, f.Min, f.Max, f.Confidence),
			Confidence: f.Confidence,
		})
	}

	if f := fa.Enum; f != nil && f.Confidence >= suggestionThreshold {
		out = append(out, Suggestion{
			Name:         fieldName + "_enum_check",
			DocumentType: documentType,
			FieldName:    fieldName,
			RuleType:     rules.TypeEnum,
			RulePattern:  strings.Join(f.Values, ","),
			Description: fmt.Sprintf("validates %s is one of %d observed values (confidence: %.2f)",
				fieldName, f.UniqueCount, f.Confidence),
			Confidence: f.Confidence,
		})
	}

	return out
}
