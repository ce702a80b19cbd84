package domain

import (
	"fmt"
	"math"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Canonical object tags are the authoritative document metadata. S3-style
// tag limits apply: at most 10 keys, ASCII-restricted values, bounded length.
const (
	TagDocumentID   = "document_id"
	TagFileType     = "file_type"
	TagCategories   = "categories"
	TagConfidence   = "confidence"
	TagUploadDate   = "upload_date"
	TagStatus       = "status"
	TagFeedTheBrain = "feed_the_brain"
	TagFeedTheGraph = "feed_the_graph"
	TagTableur      = "tableur"
	TagRelearnDate  = "relearn_date"
	TagReasoning    = "reasoning"
)

// MaxTagValueLen is the S3-compatible tag value limit.
const MaxTagValueLen = 256

// MaxObjectTags is the S3-compatible per-object tag count limit.
const MaxObjectTags = 10

var validTagKeys = map[string]struct{}{
	TagDocumentID:   {},
	TagFileType:     {},
	TagCategories:   {},
	TagConfidence:   {},
	TagUploadDate:   {},
	TagStatus:       {},
	TagFeedTheBrain: {},
	TagFeedTheGraph: {},
	TagTableur:      {},
	TagRelearnDate:  {},
	TagReasoning:    {},
}

// ValidTagKey reports whether key belongs to the closed tag-key set.
func ValidTagKey(key string) bool {
	_, ok := validTagKeys[key]
	return ok
}

// FilterTags drops keys outside the closed set and sanitizes every value.
func FilterTags(tags map[string]string) map[string]string {
	out := make(map[string]string, len(tags))
	for k, v := range tags {
		if !ValidTagKey(k) {
			continue
		}
		out[k] = SanitizeTagValue(v, MaxTagValueLen)
	}
	return out
}

const tagAllowedExtra = " +-=_:/.@"

var (
	tagSpaceRe      = regexp.MustCompile(`\s+`)
	tagUnderscoreRe = regexp.MustCompile(`_+`)
)

// SanitizeTagValue makes a string safe for use as an object tag value:
// whitespace collapsed, non-ASCII and disallowed characters replaced with
// underscores, runs of underscores squashed, result truncated to maxLen.
func SanitizeTagValue(value string, maxLen int) string {
	s := strings.NewReplacer("\r", " ", "\n", " ", "\t", " ").Replace(value)
	s = strings.TrimSpace(tagSpaceRe.ReplaceAllString(s, " "))

	var b strings.Builder
	b.Grow(len(s))
	for _, ch := range s {
		switch {
		case ch < 128 && (ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch >= '0' && ch <= '9'):
			b.WriteRune(ch)
		case strings.ContainsRune(tagAllowedExtra, ch):
			b.WriteRune(ch)
		default:
			b.WriteByte('_')
		}
	}
	s = tagUnderscoreRe.ReplaceAllString(b.String(), "_")
	s = strings.Trim(s, " _")
	if s == "" {
		s = "unknown"
	}
	if len(s) > maxLen {
		s = s[:maxLen]
	}
	return s
}

// FormatCategoriesTag encodes categories with their scores into the compact
// "cat:score+cat:score" tag value, highest score first.
func FormatCategoriesTag(categories []string, scores map[string]float64) string {
	if len(categories) == 0 {
		return ""
	}
	type scored struct {
		cat   string
		score float64
	}
	list := make([]scored, 0, len(categories))
	for _, cat := range categories {
		list = append(list, scored{cat: cat, score: scores[cat]})
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].score > list[j].score })

	parts := make([]string, 0, len(list))
	for _, sc := range list {
		parts = append(parts, fmt.Sprintf("%s:%.2f", sc.cat, sc.score))
	}
	return strings.Join(parts, "+")
}

// SplitCategoriesTag parses category names out of a categories tag value.
// Both the scored format (cat:0.85+cat:0.72) and the legacy plain formats
// (cat1+cat2, cat1,cat2) are accepted.
func SplitCategoriesTag(value string) []string {
	var out []string
	for _, part := range splitTagParts(value) {
		if idx := strings.IndexByte(part, ':'); idx >= 0 {
			part = strings.TrimSpace(part[:idx])
		}
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ParseCategoryScores parses the scored categories tag value into a score
// map. Entries without a parseable score map to 0.0.
func ParseCategoryScores(value string) map[string]float64 {
	scores := make(map[string]float64)
	for _, part := range splitTagParts(value) {
		cat, scoreStr, found := strings.Cut(part, ":")
		cat = strings.TrimSpace(cat)
		if cat == "" {
			continue
		}
		if !found {
			scores[cat] = 0.0
			continue
		}
		score, err := strconv.ParseFloat(strings.TrimSpace(scoreStr), 64)
		if err != nil {
			scores[cat] = 0.0
			continue
		}
		scores[cat] = clamp01(score)
	}
	return scores
}

func splitTagParts(value string) []string {
	if value == "" {
		return nil
	}
	var raw []string
	switch {
	case strings.Contains(value, "+"):
		raw = strings.Split(value, "+")
	case strings.Contains(value, ","):
		raw = strings.Split(value, ",")
	default:
		raw = []string{value}
	}
	out := raw[:0]
	for _, part := range raw {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// FormatConfidenceTag renders confidence as a compact decimal tag value.
func FormatConfidenceTag(confidence float64) string {
	c := clamp01(confidence)
	s := strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.4f", c), "0"), ".")
	if s == "" {
		return "0"
	}
	return s
}

// ParseConfidenceTag parses a confidence tag value, defaulting to 0 on any
// malformed input.
func ParseConfidenceTag(value string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0.0
	}
	return clamp01(f)
}

// FormatBoolTag renders a routing flag tag value ("1" or "0").
func FormatBoolTag(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

// ParseBoolTag parses a routing flag tag value, defaulting on anything
// unrecognized.
func ParseBoolTag(value string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return def
	}
}

// DerivedDatasetKey builds the derived-tier key for a generated dataset,
// "{data_type}/{name}.parquet". Downstream generators write these; the
// pipeline itself only reserves the layout.
func DerivedDatasetKey(dataType, name string) string {
	dataType = strings.Trim(strings.ToLower(dataType), "/")
	name = strings.Trim(name, "/")
	name = strings.TrimSuffix(name, ".parquet")
	return dataType + "/" + name + ".parquet"
}

// InferFileType derives the normalized file-type token from a filename
// extension, "unknown" when absent.
func InferFileType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		return "unknown"
	}
	if ext == "markdown" {
		return "md"
	}
	return ext
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
