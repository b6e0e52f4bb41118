package scraper

// Candidate is one loosely-typed record returned by the remote job dataset.
// Fields arrive with whatever types the actor emitted, so accessors coerce.
type Candidate map[string]interface{}

// String returns the field as a string, or "" when absent or not a string
func (c Candidate) String(key string) string {
	v, ok := c[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Int64 returns the field as an int64, coercing the numeric types JSON
// decoding produces. Absent or non-numeric fields return 0.
func (c Candidate) Int64(key string) int64 {
	v, ok := c[key]
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	default:
		return 0
	}
}
