package graph

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Selection is one requested field and, for object fields, its sub-fields.
type Selection struct {
	Name   string      `json:"name"`
	Alias  string      `json:"alias,omitempty"`
	Args   Args        `json:"args,omitempty"`
	Fields []Selection `json:"fields,omitempty"`
}

// Key returns the response key for the selection.
func (s Selection) Key() string {
	if s.Alias != "" {
		return s.Alias
	}
	return s.Name
}

// Response is the result of executing a selection set. Data always holds a
// key for every selected root field; failed fields are nil and described in
// Errors.
type Response struct {
	Data   map[string]any `json:"data"`
	Errors []*FieldError  `json:"errors,omitempty"`
}

// Executor walks a selection set against a Registry.
type Executor struct {
	registry *Registry
	limit    int
	logger   *slog.Logger
}

// NewExecutor creates an Executor. limit bounds how many siblings in one list
// are resolved at once; values below 1 mean sequential.
func NewExecutor(registry *Registry, limit int, logger *slog.Logger) *Executor {
	if limit < 1 {
		limit = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{registry: registry, limit: limit, logger: logger}
}

// Execute resolves sels against the root type. When serial is set the root
// fields run one after another in order (mutations); otherwise they run
// concurrently.
func (e *Executor) Execute(ctx context.Context, root string, sels []Selection, serial bool) Response {
	errs := &errorList{}
	data := make(map[string]any, len(sels))

	if serial {
		for _, sel := range sels {
			data[sel.Key()] = e.resolveField(ctx, root, nil, sel, []any{sel.Key()}, errs)
		}
	} else {
		values := make([]any, len(sels))
		e.fanOut(len(sels), func(i int) {
			values[i] = e.resolveField(ctx, root, nil, sels[i], []any{sels[i].Key()}, errs)
		})
		for i, sel := range sels {
			data[sel.Key()] = values[i]
		}
	}

	resp := Response{Data: data, Errors: errs.sorted()}
	if len(resp.Errors) > 0 {
		e.logger.Warn("field resolution errors",
			"root", root,
			"errors", len(resp.Errors),
		)
	}
	return resp
}

// resolveObject resolves the selected fields of one object value.
func (e *Executor) resolveObject(ctx context.Context, typeName string, obj any, sels []Selection, path []any, errs *errorList) map[string]any {
	out := make(map[string]any, len(sels))
	for _, sel := range sels {
		out[sel.Key()] = e.resolveField(ctx, typeName, obj, sel, appendPath(path, sel.Key()), errs)
	}
	return out
}

// resolveField runs one resolver and shapes its result. Any failure is recorded
// against path and yields nil; it never propagates to siblings.
func (e *Executor) resolveField(ctx context.Context, typeName string, parent any, sel Selection, path []any, errs *errorList) any {
	field, ok := e.registry.Lookup(typeName, sel.Name)
	if !ok {
		errs.add(path, invalidSelection("unknown field %q on type %q", sel.Name, typeName))
		return nil
	}
	if field.Composite() && len(sel.Fields) == 0 {
		errs.add(path, invalidSelection("field %q of type %q requires a selection", sel.Name, field.Type))
		return nil
	}
	if !field.Composite() && len(sel.Fields) > 0 {
		errs.add(path, invalidSelection("scalar field %q cannot have a selection", sel.Name))
		return nil
	}

	// Store calls are not cancelled when the caller goes away.
	value, err := field.Resolve(context.WithoutCancel(ctx), parent, sel.Args)
	if err != nil {
		errs.add(path, err)
		return nil
	}
	if !field.Composite() || value == nil {
		return value
	}

	if !field.List {
		return e.resolveObject(ctx, field.Type, value, sel.Fields, path, errs)
	}

	items, ok := value.([]any)
	if !ok {
		errs.add(path, invalidSelection("list field %q resolved to %T", sel.Name, value))
		return nil
	}
	results := make([]any, len(items))
	e.fanOut(len(items), func(i int) {
		results[i] = e.resolveObject(ctx, field.Type, items[i], sel.Fields, appendPath(path, i), errs)
	})
	return results
}

// fanOut runs fn for 0..n-1 with at most e.limit in flight.
func (e *Executor) fanOut(n int, fn func(i int)) {
	if n == 0 {
		return
	}
	if n == 1 || e.limit == 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}
	var g errgroup.Group
	g.SetLimit(e.limit)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			fn(i)
			return nil
		})
	}
	_ = g.Wait()
}

func appendPath(path []any, elem any) []any {
	out := make([]any, len(path), len(path)+1)
	copy(out, path)
	return append(out, elem)
}
