package gmail

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidFilterValue is returned when a filter option carries a value the
// Gmail query grammar cannot express (non-positive counts, unknown time units).
var ErrInvalidFilterValue = errors.New("invalid filter value")

// TimeUnit is the unit of a relative time window.
type TimeUnit string

const (
	UnitMinute TimeUnit = "minute"
	UnitHour   TimeUnit = "hour"
	UnitDay    TimeUnit = "day"
	UnitMonth  TimeUnit = "month"
	UnitYear   TimeUnit = "year"
)

// unitCodes maps time units to the single-letter codes the Gmail grammar
// accepts in older_than/newer_than duration literals. Note that the grammar
// reuses "m" for both minute and month.
var unitCodes = map[TimeUnit]string{
	UnitMinute: "m",
	UnitHour:   "h",
	UnitDay:    "d",
	UnitMonth:  "m",
	UnitYear:   "y",
}

// RelativeTime expresses a filter like "newer than 2 days" as a (count, unit)
// pair. The grammar accepts relative duration literals directly, so no
// absolute-date computation happens at build time.
type RelativeTime struct {
	Count int
	Unit  TimeUnit
}

// token renders the relative time as a duration literal for the given field,
// e.g. "newer_than:2d".
func (rt RelativeTime) token(field string) (string, error) {
	if rt.Count <= 0 {
		return "", fmt.Errorf("%w: %s count must be positive, got %d", ErrInvalidFilterValue, field, rt.Count)
	}
	code, ok := unitCodes[rt.Unit]
	if !ok {
		return "", fmt.Errorf("%w: unknown time unit %q", ErrInvalidFilterValue, rt.Unit)
	}
	return field + ":" + strconv.Itoa(rt.Count) + code, nil
}

// NearWords matches messages where two words appear within a given distance
// of each other, using the grammar's AROUND operator.
type NearWords struct {
	First    string
	Second   string
	Distance int
}

func (n NearWords) term() (string, error) {
	if n.First == "" || n.Second == "" {
		return "", fmt.Errorf("%w: near-words requires two words", ErrInvalidFilterValue)
	}
	if n.Distance <= 0 {
		return "", fmt.Errorf("%w: near-words distance must be positive, got %d", ErrInvalidFilterValue, n.Distance)
	}
	return quoteIfSpaced(n.First) + " AROUND " + strconv.Itoa(n.Distance) + " " + quoteIfSpaced(n.Second), nil
}

// ParseRelativeTime parses a duration literal like "2d", "3mo" or "1y" into
// a RelativeTime. Recognized unit suffixes: min, h, d, m or mo (month), y.
func ParseRelativeTime(s string) (*RelativeTime, error) {
	s = strings.TrimSpace(s)
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 || i == len(s) {
		return nil, fmt.Errorf("%w: want <count><unit>, got %q", ErrInvalidFilterValue, s)
	}
	count, err := strconv.Atoi(s[:i])
	if err != nil || count <= 0 {
		return nil, fmt.Errorf("%w: count must be positive in %q", ErrInvalidFilterValue, s)
	}

	var unit TimeUnit
	switch strings.ToLower(s[i:]) {
	case "min", "minute", "minutes":
		unit = UnitMinute
	case "h", "hour", "hours":
		unit = UnitHour
	case "d", "day", "days":
		unit = UnitDay
	case "m", "mo", "month", "months":
		unit = UnitMonth
	case "y", "year", "years":
		unit = UnitYear
	default:
		return nil, fmt.Errorf("%w: unknown time unit %q", ErrInvalidFilterValue, s[i:])
	}
	return &RelativeTime{Count: count, Unit: unit}, nil
}

// FilterOptions describes one set of ANDed search constraints. Every field is
// optional; the zero value means "no constraint". Because the options are a
// typed struct rather than a free-form key/value bag, unrecognized filter
// keys cannot be expressed at all, which is this package's forward-compatible
// stance on grammar evolution.
type FilterOptions struct {
	// Address filters.
	Sender    string // from:
	Recipient string // to:
	Cc        string // cc:
	Bcc       string // bcc:

	// Free-text filters. Subject and ExactPhrase are quoted when they
	// contain whitespace.
	Subject     string // subject:
	ExactPhrase string // bare quoted phrase, matches the message body
	Filename    string // filename: attachment name or file type

	// NearWords constrains two words to appear near each other in the body.
	NearWords *NearWords

	// Labels is a disjunction of conjunctions over label membership: each
	// inner slice is a set of labels that must all be applied, and a message
	// matches if any inner slice matches.
	Labels [][]string

	// Absolute date bounds in the grammar's YYYY/MM/DD form.
	After  string
	Before string

	// Relative time windows.
	OlderThan *RelativeTime
	NewerThan *RelativeTime

	// Message size bounds in bytes. Zero means unset.
	LargerThan  int64
	SmallerThan int64

	// Status filters. Conflicting combinations (Starred together with
	// ExcludeStarred, Read together with Unread) emit all requested tokens;
	// precedence is left to the provider grammar.
	Read           bool // is:read
	Unread         bool // is:unread
	Starred        bool // is:starred
	ExcludeStarred bool // -is:starred
	Snoozed        bool // is:snoozed
	Important      bool // is:important
	HasAttachment  bool // has:attachment
	HasDrive       bool // has:drive
	HasDocs        bool // has:document
	HasSheets      bool // has:spreadsheet
	HasSlides      bool // has:presentation

	// Sender/recipient shorthands for the authenticated user.
	FromMe bool // from:me
	ToMe   bool // to:me
}

// BuildQuery translates one or more FilterOptions sets into a single Gmail
// search query string. Each set becomes an AND-joined clause group; groups
// are OR-joined when more than one non-empty set is given. The clause order
// within a group is fixed, so identical inputs always produce byte-identical
// queries. An input with no constraints at all yields the empty string,
// which Gmail treats as "all messages".
func BuildQuery(sets ...FilterOptions) (string, error) {
	var groups []string
	for i, set := range sets {
		clause, err := set.clause()
		if err != nil {
			return "", fmt.Errorf("option set %d: %w", i, err)
		}
		if clause == "" {
			continue
		}
		groups = append(groups, clause)
	}

	switch len(groups) {
	case 0:
		return "", nil
	case 1:
		return groups[0], nil
	}

	for i := range groups {
		groups[i] = "(" + groups[i] + ")"
	}
	return strings.Join(groups, " OR "), nil
}

// clause renders one FilterOptions set as a space-joined AND clause.
func (o FilterOptions) clause() (string, error) {
	var terms []string
	field := func(name, value string) {
		if value != "" {
			terms = append(terms, name+":"+value)
		}
	}

	field("from", o.Sender)
	field("to", o.Recipient)
	field("cc", o.Cc)
	field("bcc", o.Bcc)

	if o.Subject != "" {
		terms = append(terms, "subject:"+quoteIfSpaced(o.Subject))
	}
	if o.ExactPhrase != "" {
		terms = append(terms, quoteIfSpaced(o.ExactPhrase))
	}
	if o.NearWords != nil {
		t, err := o.NearWords.term()
		if err != nil {
			return "", err
		}
		terms = append(terms, t)
	}
	field("filename", o.Filename)

	labelIdx := -1
	labelOR := false
	if label, multiGroup := labelTerm(o.Labels); label != "" {
		labelIdx = len(terms)
		labelOR = multiGroup
		terms = append(terms, label)
	}

	field("after", o.After)
	field("before", o.Before)

	if o.OlderThan != nil {
		t, err := o.OlderThan.token("older_than")
		if err != nil {
			return "", err
		}
		terms = append(terms, t)
	}
	if o.NewerThan != nil {
		t, err := o.NewerThan.token("newer_than")
		if err != nil {
			return "", err
		}
		terms = append(terms, t)
	}

	if o.LargerThan < 0 || o.SmallerThan < 0 {
		return "", fmt.Errorf("%w: size bounds must be positive", ErrInvalidFilterValue)
	}
	if o.LargerThan > 0 {
		terms = append(terms, "larger:"+strconv.FormatInt(o.LargerThan, 10))
	}
	if o.SmallerThan > 0 {
		terms = append(terms, "smaller:"+strconv.FormatInt(o.SmallerThan, 10))
	}

	if o.HasAttachment {
		terms = append(terms, "has:attachment")
	}
	if o.HasDrive {
		terms = append(terms, "has:drive")
	}
	if o.HasDocs {
		terms = append(terms, "has:document")
	}
	if o.HasSheets {
		terms = append(terms, "has:spreadsheet")
	}
	if o.HasSlides {
		terms = append(terms, "has:presentation")
	}
	if o.Read {
		terms = append(terms, "is:read")
	}
	if o.Unread {
		terms = append(terms, "is:unread")
	}
	if o.Starred {
		terms = append(terms, "is:starred")
	}
	if o.ExcludeStarred {
		terms = append(terms, "-is:starred")
	}
	if o.Snoozed {
		terms = append(terms, "is:snoozed")
	}
	if o.Important {
		terms = append(terms, "is:important")
	}
	if o.FromMe {
		terms = append(terms, "from:me")
	}
	if o.ToMe {
		terms = append(terms, "to:me")
	}

	if len(terms) == 0 {
		return "", nil
	}

	// A label expression containing an OR must stay a single AND-term when
	// it sits among other terms.
	if labelOR && len(terms) > 1 {
		terms[labelIdx] = "(" + terms[labelIdx] + ")"
	}

	return strings.Join(terms, " "), nil
}

// labelTerm renders the OR-of-AND label structure. Each inner group is
// AND-joined and parenthesized when the expression has multiple groups or the
// group has multiple labels; groups are OR-joined. The second return value
// reports whether the expression is an OR over multiple groups.
func labelTerm(groups [][]string) (string, bool) {
	var rendered []string
	for _, group := range groups {
		if len(group) == 0 {
			continue
		}
		parts := make([]string, len(group))
		for i, l := range group {
			parts[i] = "label:" + l
		}
		rendered = append(rendered, strings.Join(parts, " "))
	}

	switch len(rendered) {
	case 0:
		return "", false
	case 1:
		if strings.Contains(rendered[0], " ") {
			return "(" + rendered[0] + ")", false
		}
		return rendered[0], false
	}

	for i := range rendered {
		rendered[i] = "(" + rendered[i] + ")"
	}
	return strings.Join(rendered, " OR "), true
}

func quoteIfSpaced(s string) string {
	if strings.ContainsAny(s, " \t") {
		return `"` + s + `"`
	}
	return s
}
