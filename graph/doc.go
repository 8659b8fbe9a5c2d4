// Package graph resolves query and mutation selections across the walker
// document store and the animal relational store.
//
// Every field of the schema has a resolver registered in a [Registry]. Scalar
// fields read from their parent value. The two cross-store fields are lazy:
//
//   - Walker.dogs looks up the walker's animal ids in the relational store, in
//     one call, and only when the field is selected. A walker with no animal
//     ids resolves to an empty list without touching the relational store.
//   - Animal.walker looks up the walker whose id equals the animal's walker id.
//     A missing walker resolves to null.
//
// # Schema
//
//	type Query    { users: [Walker]  dogs: [Animal] }
//	type Mutation { createWalker(name: String!): Walker
//	                createAnimal(name: String!, breed: String!, walkerId: String): Animal }
//	type Walker   { id: String  name: String  dogs: [Animal] }
//	type Animal   { id: Int  name: String  breed: String  walkerId: String  walker: Walker }
//
// # Execution
//
// Query root fields and list elements resolve concurrently, bounded by
// [Config.MaxConcurrency]. Mutation root fields run in document order. A
// failing field yields null plus a [FieldError]; its siblings still resolve.
// Store calls run on a context detached from the caller's cancellation.
//
// Requests arrive either as a [Request] value or as a GraphQL document through
// [ParseRequest].
package graph
