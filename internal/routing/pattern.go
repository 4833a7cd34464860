package routing

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
)

type pieceKind uint8

const (
	pieceLiteral pieceKind = iota
	pieceStar
	pieceVar
)

type piece struct {
	kind pieceKind
	text string
}

// segment is one '/'-delimited part of a pattern. A segment that is exactly
// "**" spans any number of path segments; all others match exactly one.
type segment struct {
	anyDepth bool
	literal  bool
	pieces   []piece
}

// CompiledPattern is an immutable matcher for one Ant-style path pattern.
// It is safe for concurrent use.
type CompiledPattern struct {
	source    string
	segments  []segment
	variables []string
}

// Compile tokenizes an Ant-style pattern.
//
//	**      zero or more path segments (only as a whole segment; elsewhere it acts as *)
//	*       any run of characters within a segment, possibly empty
//	{name}  one or more characters within a segment
//
// Matching is anchored at both ends and case-sensitive.
func Compile(source string) (*CompiledPattern, error) {
	if source == "" {
		return nil, ErrEmptyPattern
	}

	parts := strings.Split(source, "/")
	cp := &CompiledPattern{
		source:   source,
		segments: make([]segment, 0, len(parts)),
	}

	for _, part := range parts {
		if part == "**" {
			// consecutive ** segments are equivalent to one
			if n := len(cp.segments); n > 0 && cp.segments[n-1].anyDepth {
				continue
			}
			cp.segments = append(cp.segments, segment{anyDepth: true})
			continue
		}

		seg, vars, err := tokenizeSegment(part)
		if err != nil {
			return nil, fmt.Errorf("compile %q: %w", source, err)
		}
		cp.segments = append(cp.segments, seg)
		cp.variables = append(cp.variables, vars...)
	}

	return cp, nil
}

// MustCompile is like Compile but panics on error
func MustCompile(source string) *CompiledPattern {
	cp, err := Compile(source)
	if err != nil {
		panic(err)
	}
	return cp
}

func tokenizeSegment(part string) (segment, []string, error) {
	var (
		pieces  []piece
		vars    []string
		literal strings.Builder
	)

	flush := func() {
		if literal.Len() > 0 {
			pieces = append(pieces, piece{kind: pieceLiteral, text: literal.String()})
			literal.Reset()
		}
	}

	for i := 0; i < len(part); i++ {
		switch c := part[i]; c {
		case '*':
			flush()
			if n := len(pieces); n > 0 && pieces[n-1].kind == pieceStar {
				continue
			}
			pieces = append(pieces, piece{kind: pieceStar})
		case '{':
			end := strings.IndexByte(part[i+1:], '}')
			if end < 0 {
				return segment{}, nil, ErrUnbalancedBrace
			}
			name := part[i+1 : i+1+end]
			if name == "" {
				return segment{}, nil, ErrEmptyVariable
			}
			if strings.IndexByte(name, '{') >= 0 {
				return segment{}, nil, ErrUnbalancedBrace
			}
			flush()
			pieces = append(pieces, piece{kind: pieceVar, text: name})
			vars = append(vars, name)
			i += end + 1
		case '}':
			return segment{}, nil, ErrUnbalancedBrace
		default:
			literal.WriteByte(c)
		}
	}
	flush()

	seg := segment{pieces: pieces}
	seg.literal = len(pieces) == 0 || (len(pieces) == 1 && pieces[0].kind == pieceLiteral)
	return seg, vars, nil
}

// Source returns the pattern text the matcher was compiled from
func (p *CompiledPattern) Source() string {
	return p.source
}

// Variables returns the placeholder names in declaration order
func (p *CompiledPattern) Variables() []string {
	out := make([]string, len(p.variables))
	copy(out, p.variables)
	return out
}

// Match reports whether the whole path satisfies the pattern
func (p *CompiledPattern) Match(path string) bool {
	return matchSegments(p.segments, strings.Split(path, "/"))
}

func (p *CompiledPattern) String() string {
	return p.source
}

// matchSegments walks path segments against pattern segments. On a mismatch
// after a ** segment it backtracks by letting the last ** absorb one more
// path segment.
func matchSegments(pattern []segment, path []string) bool {
	pi, si := 0, 0
	star, mark := -1, 0

	for si < len(path) {
		if pi < len(pattern) {
			if pattern[pi].anyDepth {
				star, mark = pi, si
				pi++
				continue
			}
			if pattern[pi].match(path[si]) {
				pi++
				si++
				continue
			}
		}
		if star < 0 {
			return false
		}
		mark++
		pi, si = star+1, mark
	}

	for pi < len(pattern) && pattern[pi].anyDepth {
		pi++
	}
	return pi == len(pattern)
}

func (s segment) match(text string) bool {
	if s.literal {
		if len(s.pieces) == 0 {
			return text == ""
		}
		return text == s.pieces[0].text
	}
	return matchPieces(s.pieces, text)
}

func matchPieces(pieces []piece, text string) bool {
	if len(pieces) == 0 {
		return text == ""
	}

	p := pieces[0]
	if p.kind == pieceLiteral {
		return strings.HasPrefix(text, p.text) && matchPieces(pieces[1:], text[len(p.text):])
	}

	least := 0
	if p.kind == pieceVar {
		least = 1
	}
	if len(pieces) == 1 {
		return len(text) >= least
	}
	for i := least; i <= len(text); i++ {
		if matchPieces(pieces[1:], text[i:]) {
			return true
		}
	}
	return false
}

// PatternCompiler compiles patterns and caches them by source text.
// Compiling the same text twice returns the same *CompiledPattern.
type PatternCompiler struct {
	cache sync.Map
	size  atomic.Int64
}

// NewPatternCompiler creates an empty compiler cache
func NewPatternCompiler() *PatternCompiler {
	return &PatternCompiler{}
}

// Compile returns the cached matcher for source, compiling it on first use.
// Failed compilations are not cached.
func (c *PatternCompiler) Compile(source string) (*CompiledPattern, error) {
	if cached, ok := c.cache.Load(source); ok {
		return cached.(*CompiledPattern), nil
	}

	cp, err := Compile(source)
	if err != nil {
		return nil, err
	}

	actual, loaded := c.cache.LoadOrStore(source, cp)
	if !loaded {
		c.size.Add(1)
	}
	return actual.(*CompiledPattern), nil
}

// Len returns the number of cached patterns
func (c *PatternCompiler) Len() int {
	return int(c.size.Load())
}
