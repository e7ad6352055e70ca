package pagesplice

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/alnah/go-pagesplice/internal/fileutil"
)

// Engine applies one family's transformations to its documents.
// Create with New; an Engine is not safe for concurrent use.
type Engine struct {
	family Family
	rules  []*RuleSetMatcher
	subs   []*compiledSubstitution
	codec  *codec
	dryRun bool
	logger *zap.Logger
	write  writeFunc
	exists func(path string) bool
}

// writeFunc commits final bytes; original is nil when the target is new.
type writeFunc func(path string, original, final []byte) (bool, error)

// Option configures an Engine.
type Option func(*Engine)

// WithDryRun computes results without writing anything.
func WithDryRun(dryRun bool) Option {
	return func(e *Engine) {
		e.dryRun = dryRun
	}
}

// WithLogger sets the logger for per-step debug events.
// Panics if l is nil (programmer error).
func WithLogger(l *zap.Logger) Option {
	if l == nil {
		panic("pagesplice: WithLogger logger must not be nil")
	}
	return func(e *Engine) {
		e.logger = l
	}
}

// withWriter replaces the write-back function (tests).
func withWriter(w writeFunc) Option {
	return func(e *Engine) {
		e.write = w
	}
}

// New compiles the family into an Engine.
// Returns an error wrapping one of the validation sentinels if any rule,
// reorder, substitution or encoding is invalid.
func New(f Family, opts ...Option) (*Engine, error) {
	if err := f.validateShape(); err != nil {
		return nil, err
	}

	e := &Engine{
		family: f,
		logger: zap.NewNop(),
		write:  WriteBack,
		exists: fileutil.FileExists,
	}

	for _, rs := range f.RuleSets {
		m, err := CompileRuleSet(rs)
		if err != nil {
			return nil, fmt.Errorf("family %q: %w", f.Name, err)
		}
		e.rules = append(e.rules, m)
	}
	if f.Reorder != nil {
		if err := f.Reorder.Validate(); err != nil {
			return nil, fmt.Errorf("family %q: %w", f.Name, err)
		}
	}
	for _, s := range f.Substitutions {
		cs, err := compileSubstitution(s)
		if err != nil {
			return nil, fmt.Errorf("family %q: %w", f.Name, err)
		}
		e.subs = append(e.subs, cs)
	}

	c, err := newCodec(f.Encoding)
	if err != nil {
		return nil, fmt.Errorf("family %q: %w", f.Name, err)
	}
	e.codec = c

	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Family returns the family the engine was built from.
func (e *Engine) Family() Family {
	return e.family
}

// Transform runs the guard, rule sets, reorder and substitutions over text.
// It never touches storage. The returned text equals the input unless the
// result is Converted.
func (e *Engine) Transform(text string, doc DocumentRef) (string, Result) {
	res := Result{Path: doc.Path}

	if sig, ok := canonicalSignature(text, e.family.Canonical); ok {
		res.Steps = append(res.Steps, StepResult{
			Name:    "canonical",
			Kind:    StepGuard,
			Outcome: SkippedAlreadyCanonical,
			Detail:  "found " + sig,
		})
		res.Outcome = SkippedAlreadyCanonical
		return text, res
	}

	out := text
	params := RewriteParams{Active: doc.Active}
	for _, m := range e.rules {
		var step StepResult
		out, step = m.Apply(out, params)
		res.Steps = append(res.Steps, step)
	}
	if e.family.Reorder != nil {
		var step StepResult
		out, step = e.family.Reorder.Apply(out)
		res.Steps = append(res.Steps, step)
	}
	for _, cs := range e.subs {
		var step StepResult
		out, step = cs.Apply(out)
		res.Steps = append(res.Steps, step)
	}

	res.Outcome, res.Err = aggregate(res.Steps, out != text)
	if res.Outcome != Converted {
		return text, res
	}
	return out, res
}

// aggregate derives the document outcome from its steps. A failed step or a
// required step without a match vetoes the whole document.
func aggregate(steps []StepResult, changed bool) (Outcome, error) {
	var noMatch []string
	canonical := false
	for _, s := range steps {
		switch s.Outcome {
		case Failed:
			return Failed, s.Err
		case SkippedNoMatch:
			if s.Required {
				noMatch = append(noMatch, s.Name)
			}
		case SkippedAlreadyCanonical:
			canonical = true
		}
	}
	switch {
	case len(noMatch) > 0:
		return SkippedNoMatch, fmt.Errorf("%w: %s", ErrNoMatch, strings.Join(noMatch, ", "))
	case changed:
		return Converted, nil
	case canonical:
		return SkippedAlreadyCanonical, nil
	}
	return SkippedNoMatch, ErrNoMatch
}

// Process reads, transforms and writes back one document.
// Failures are reported in the Result, never returned.
func (e *Engine) Process(doc DocumentRef) Result {
	path := e.family.documentPath(doc)
	outPath := path
	if e.family.Output.Suffix != "" {
		outPath = fileutil.SiblingPath(path, e.family.Output.Suffix)
	}
	res := e.process(path, outPath, doc)
	e.log(res)
	return res
}

func (e *Engine) process(path, outPath string, doc DocumentRef) Result {
	res := Result{Path: path, OutputPath: outPath, DryRun: e.dryRun}

	if outPath != path && e.exists(outPath) {
		res.Outcome = SkippedAlreadyCanonical
		res.Steps = []StepResult{{
			Name:    "output",
			Kind:    StepOutput,
			Outcome: SkippedAlreadyCanonical,
			Detail:  "exists " + outPath,
		}}
		return res
	}

	d, err := readDocument(path, e.codec)
	if err != nil {
		res.Err = err
		res.Outcome = Failed
		if errors.Is(err, ErrDocumentNotFound) {
			res.Outcome = SkippedNotFound
		}
		return res
	}

	final, tr := e.Transform(d.Text, doc)
	res.Outcome, res.Steps, res.Err = tr.Outcome, tr.Steps, tr.Err
	if res.Outcome != Converted {
		return res
	}

	encoded, err := e.codec.encode(final)
	if err != nil {
		res.Outcome, res.Err = Failed, err
		return res
	}

	original := d.Raw
	if outPath != path {
		original = nil
	}
	if e.dryRun {
		res.Changed = original == nil || string(original) != string(encoded)
		return res
	}

	changed, err := e.write(outPath, original, encoded)
	if err != nil {
		if !errors.Is(err, ErrWriteFailure) {
			err = fmt.Errorf("%w: %v", ErrWriteFailure, err)
		}
		res.Outcome, res.Err = Failed, err
		return res
	}
	res.Changed = changed
	return res
}

// ProcessAll processes docs in order; nil means the family's own list.
// A failure on one document never stops the others.
func (e *Engine) ProcessAll(docs []DocumentRef) []Result {
	if docs == nil {
		docs = e.family.Documents
	}
	results := make([]Result, 0, len(docs))
	for _, doc := range docs {
		results = append(results, e.Process(doc))
	}
	return results
}

func (e *Engine) log(res Result) {
	if ce := e.logger.Check(zap.DebugLevel, "document processed"); ce != nil {
		ce.Write(
			zap.String("family", e.family.Name),
			zap.String("path", res.Path),
			zap.Stringer("outcome", res.Outcome),
			zap.Bool("changed", res.Changed),
			zap.Bool("dry_run", res.DryRun),
			zap.Error(res.Err),
		)
	}
	for _, s := range res.Steps {
		e.logger.Debug("step",
			zap.String("path", res.Path),
			zap.String("step", s.Name),
			zap.String("kind", string(s.Kind)),
			zap.Stringer("outcome", s.Outcome),
			zap.String("detail", s.Detail),
		)
	}
}
