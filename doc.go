// Package kindcore type checks books of a dependently typed language by
// compiling them into a rewrite-rule program and running it on an external
// evaluator.
//
// kindcore itself does not reduce terms, relying instead on an Evaluator that
// links the generated program with the checker prelude and returns its answer.
//
// Typical use is as follows:
//
//  1. Load a book, for example with syntax.LoadFile
//  2. Create an engine with an Evaluator
//  3. Use the engine to check the book
//  4. Inspect or render the diagnostics in the result
//
// Options control which entries are checked, whether pattern coverage is
// verified and how strictly the answer is decoded.
//
// # Packages
//
// The work is split across packages that can be used on their own:
//
//	span       packs source ranges into 60-bit words
//	syntax     the core language tree and YAML book loading
//	hvm        evaluator terms, rule files and their text form
//	compiler   encodes expressions and generates the checker program
//	report     decodes the evaluator's answer into diagnostics
//	cel        selects entries with CEL expressions
//
// # Decode failures
//
// A diagnostic the engine cannot decode means the checker prelude and this
// package disagree on the wire vocabulary. Such items are logged at error
// level and returned in Result.DecodeErrors, apart from the diagnostics about
// the book. Set StrictDecoding to turn them into a failed check.
//
// # Concurrency
//
// Books must not be modified while they are being compiled. An Engine may be
// shared; each Check builds its program from scratch.
package kindcore
