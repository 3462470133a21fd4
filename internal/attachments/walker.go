package attachments

import (
	"iter"
	"strings"

	"github.com/teemow/inboxsaver/internal/gmail"
)

// Verdict classifies a part as an attachment candidate.
type Verdict int

const (
	// Match means the part should be saved.
	Match Verdict = iota
	// SkipContentType means the content type does not start with the prefix.
	SkipContentType
	// SkipNoFilename means the part has the right type but no filename.
	SkipNoFilename
)

func (v Verdict) String() string {
	switch v {
	case Match:
		return "match"
	case SkipContentType:
		return "content type mismatch"
	case SkipNoFilename:
		return "no filename"
	default:
		return "unknown"
	}
}

// Candidate is a part together with its verdict.
type Candidate struct {
	Part    gmail.Part
	Verdict Verdict
}

// Walker classifies message parts by content type prefix.
type Walker struct {
	Prefix string
}

// Classify returns the verdict for a single part.
func (w Walker) Classify(p gmail.Part) Verdict {
	if !strings.HasPrefix(p.ContentType, w.Prefix) {
		return SkipContentType
	}
	if p.Filename == "" {
		return SkipNoFilename
	}
	return Match
}

// Candidates yields the root part, when it has a content type, followed by
// each child part in order. The sequence can be ranged over more than once.
func (w Walker) Candidates(body gmail.MessageBody) iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		if body.Root != nil && body.Root.ContentType != "" {
			if !yield(Candidate{Part: *body.Root, Verdict: w.Classify(*body.Root)}) {
				return
			}
		}
		for _, p := range body.Children {
			if !yield(Candidate{Part: p, Verdict: w.Classify(p)}) {
				return
			}
		}
	}
}

// Matches yields only the parts that should be saved.
func (w Walker) Matches(body gmail.MessageBody) iter.Seq[gmail.Part] {
	return func(yield func(gmail.Part) bool) {
		for c := range w.Candidates(body) {
			if c.Verdict != Match {
				continue
			}
			if !yield(c.Part) {
				return
			}
		}
	}
}
