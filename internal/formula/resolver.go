package formula

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"lampolaskuri_backend/platform/numeric"

	"github.com/google/uuid"
)

// failedExecutionText replaces a [calc:] token whose formula raised an error.
const failedExecutionText = "Formula execution failed"

// finnishDateLayout is the display layout for CURRENT_DATE and date formatting.
const finnishDateLayout = "2.1.2006"

// tokenPattern matches every shortcode form in one pass, left to right,
// non-overlapping.
var tokenPattern = regexp.MustCompile(
	`\[calc:[^\]\s]+\]|\[lookup:[^\]\s]+\]|\[format:[^\]]+\]|\{[a-zA-Z0-9_]+\}|CURRENT_DATE|AUTO_GENERATE`,
)

// Context is the read-only snapshot a single resolution pass runs against.
type Context struct {
	// Fields is the flat lead + metrics value map backing {field} tokens and
	// the `data` environment of formulas.
	Fields map[string]any
	// Formulas are the stored named expressions, keyed by name.
	Formulas map[string]Formula
	// Lookups are named scalar constants, keyed by name.
	Lookups map[string]any
	// Now defaults to time.Now; injectable for tests.
	Now time.Time
	// NextReference mints an AUTO_GENERATE value; defaults to a short
	// uppercase reference derived from a fresh UUID.
	NextReference func() string
}

// FieldError describes one token that could not be fully resolved.
type FieldError struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

// Result is the API-level outcome of one resolution pass.
type Result struct {
	Success bool         `json:"success"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// Resolve substitutes every token in the template. It never fails: an
// unresolvable token stays as its literal text (so drafts show what is
// missing), a failing formula renders the failure text, and every problem is
// reported in the Result for the caller to act on.
func Resolve(template string, ctx Context) (string, Result) {
	result := Result{Success: true}

	resolved := tokenPattern.ReplaceAllStringFunc(template, func(token string) string {
		replacement, err := resolveToken(token, &ctx)
		if err != nil {
			result.Success = false
			result.Errors = append(result.Errors, FieldError{Token: token, Message: err.Error()})
			if strings.HasPrefix(token, "[calc:") && replacement != "" {
				return replacement
			}
			return token
		}
		return replacement
	})

	return resolved, result
}

func resolveToken(token string, ctx *Context) (string, error) {
	switch {
	case token == "CURRENT_DATE":
		return ctx.now().Format(finnishDateLayout), nil

	case token == "AUTO_GENERATE":
		return ctx.nextReference(), nil

	case strings.HasPrefix(token, "{"):
		name := strings.Trim(token, "{}")
		value, ok := ctx.Fields[name]
		if !ok {
			// Absent field renders as empty, not an error: templates commonly
			// reference optional contact fields.
			return "", nil
		}
		return stringify(value), nil

	case strings.HasPrefix(token, "[calc:"):
		name := strings.TrimSuffix(strings.TrimPrefix(token, "[calc:"), "]")
		f, ok := ctx.Formulas[name]
		if !ok {
			// Unknown formula keeps the literal token so drafts show the gap.
			return "", fmt.Errorf("unknown formula %q", name)
		}
		value, err := Evaluate(f, ctx.Fields)
		if err != nil {
			return failedExecutionText, err
		}
		return stringify(value), nil

	case strings.HasPrefix(token, "[lookup:"):
		name := strings.TrimSuffix(strings.TrimPrefix(token, "[lookup:"), "]")
		value, ok := ctx.Lookups[name]
		if !ok {
			return "", fmt.Errorf("unknown lookup %q", name)
		}
		return stringify(value), nil

	case strings.HasPrefix(token, "[format:"):
		return resolveFormat(strings.TrimSuffix(strings.TrimPrefix(token, "[format:"), "]"), ctx)
	}

	return "", fmt.Errorf("unrecognized token")
}

// resolveFormat handles [format:source:type[:decimals=N][,suffix=S]].
func resolveFormat(body string, ctx *Context) (string, error) {
	parts := strings.SplitN(body, ":", 3)
	if len(parts) < 2 {
		return "", fmt.Errorf("malformed format token")
	}
	source, formatType := parts[0], parts[1]

	decimals := -1
	suffix := ""
	if len(parts) == 3 {
		for _, opt := range strings.Split(parts[2], ",") {
			key, value, found := strings.Cut(opt, "=")
			if !found {
				continue
			}
			switch strings.TrimSpace(key) {
			case "decimals":
				if d, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
					decimals = d
				}
			case "suffix":
				suffix = value
			}
		}
	}

	value, err := ctx.sourceValue(source)
	if err != nil {
		return "", err
	}

	formatted, err := formatValue(value, formatType, decimals)
	if err != nil {
		return "", err
	}
	return formatted + suffix, nil
}

// sourceValue resolves a format source: a context field first, then a stored
// formula by the same name, then a lookup.
func (ctx *Context) sourceValue(source string) (any, error) {
	if value, ok := ctx.Fields[source]; ok {
		return value, nil
	}
	if _, ok := ctx.Formulas[source]; ok {
		return ctx.runFormula(source)
	}
	if value, ok := ctx.Lookups[source]; ok {
		return value, nil
	}
	return nil, fmt.Errorf("unknown format source %q", source)
}

func (ctx *Context) runFormula(name string) (any, error) {
	f, ok := ctx.Formulas[name]
	if !ok {
		return nil, fmt.Errorf("unknown formula %q", name)
	}
	return Evaluate(f, ctx.Fields)
}

func formatValue(value any, formatType string, decimals int) (string, error) {
	switch formatType {
	case "currency":
		return numeric.FormatCurrency(numeric.Parse(value)), nil
	case "number":
		d := decimals
		if d < 0 {
			d = 0
		}
		return numeric.Format(numeric.Parse(value), d), nil
	case "decimal":
		d := decimals
		if d < 0 {
			d = 1
		}
		return numeric.Format(numeric.Parse(value), d), nil
	case "percentage":
		d := decimals
		if d < 0 {
			d = 0
		}
		return numeric.Format(numeric.Parse(value), d) + " %", nil
	case "date":
		return formatDate(value)
	default:
		return "", fmt.Errorf("unknown format type %q", formatType)
	}
}

func formatDate(value any) (string, error) {
	switch v := value.(type) {
	case time.Time:
		return v.Format(finnishDateLayout), nil
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02", finnishDateLayout} {
			if t, err := time.Parse(layout, v); err == nil {
				return t.Format(finnishDateLayout), nil
			}
		}
		return "", fmt.Errorf("unparseable date %q", v)
	default:
		return "", fmt.Errorf("value is not a date")
	}
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

func (ctx *Context) now() time.Time {
	if ctx.Now.IsZero() {
		return time.Now()
	}
	return ctx.Now
}

func (ctx *Context) nextReference() string {
	if ctx.NextReference != nil {
		return ctx.NextReference()
	}
	id := uuid.NewString()
	return strings.ToUpper(strings.ReplaceAll(id, "-", "")[:8])
}
