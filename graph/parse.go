package graph

import (
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

// ParseRequest turns a GraphQL document into a Request. The document must hold
// exactly one operation, or operationName must pick one. Fragments and
// directives are not supported.
func ParseRequest(query, operationName string, variables map[string]any) (Request, error) {
	doc, err := parser.ParseQuery(&ast.Source{Name: "request", Input: query})
	if err != nil {
		return Request{}, fmt.Errorf("%w: %s", ErrInvalidSelection, err.Error())
	}

	op, err := pickOperation(doc, operationName)
	if err != nil {
		return Request{}, err
	}

	vars, err := withDefaults(op, variables)
	if err != nil {
		return Request{}, err
	}

	sels, err := convertSelectionSet(op.SelectionSet, vars)
	if err != nil {
		return Request{}, err
	}

	kind := OperationQuery
	if op.Operation == ast.Mutation {
		kind = OperationMutation
	}
	return Request{Operation: kind, Selection: sels}, nil
}

func pickOperation(doc *ast.QueryDocument, name string) (*ast.OperationDefinition, error) {
	if len(doc.Fragments) > 0 {
		return nil, invalidSelection("fragments are not supported")
	}
	if name != "" {
		op := doc.Operations.ForName(name)
		if op == nil {
			return nil, invalidSelection("operation %q not found", name)
		}
		return checkOperation(op)
	}
	if len(doc.Operations) != 1 {
		return nil, invalidSelection("expected exactly one operation, got %d", len(doc.Operations))
	}
	return checkOperation(doc.Operations[0])
}

func checkOperation(op *ast.OperationDefinition) (*ast.OperationDefinition, error) {
	if op.Operation == ast.Subscription {
		return nil, invalidSelection("subscriptions are not supported")
	}
	return op, nil
}

// withDefaults returns variables with declared defaults filled in for the
// names the caller did not supply. The caller's map is not modified.
func withDefaults(op *ast.OperationDefinition, variables map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(variables)+len(op.VariableDefinitions))
	for k, v := range variables {
		out[k] = v
	}
	for _, def := range op.VariableDefinitions {
		if def.DefaultValue == nil {
			continue
		}
		if _, ok := out[def.Variable]; ok {
			continue
		}
		v, err := def.DefaultValue.Value(nil)
		if err != nil {
			return nil, invalidSelection("default for $%s: %v", def.Variable, err)
		}
		out[def.Variable] = v
	}
	return out, nil
}

func convertSelectionSet(set ast.SelectionSet, variables map[string]any) ([]Selection, error) {
	out := make([]Selection, 0, len(set))
	for _, s := range set {
		field, ok := s.(*ast.Field)
		if !ok {
			return nil, invalidSelection("only plain fields are supported")
		}
		if len(field.Directives) > 0 {
			return nil, invalidSelection("directives are not supported")
		}

		sel := Selection{Name: field.Name}
		if field.Alias != field.Name {
			sel.Alias = field.Alias
		}
		if len(field.Arguments) > 0 {
			sel.Args = make(Args, len(field.Arguments))
			for _, arg := range field.Arguments {
				v, err := arg.Value.Value(variables)
				if err != nil {
					return nil, invalidSelection("argument %q: %v", arg.Name, err)
				}
				sel.Args[arg.Name] = v
			}
		}
		if len(field.SelectionSet) > 0 {
			children, err := convertSelectionSet(field.SelectionSet, variables)
			if err != nil {
				return nil, err
			}
			sel.Fields = children
		}
		out = append(out, sel)
	}
	return out, nil
}
