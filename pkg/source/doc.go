// Package source fetches class hierarchy mappings.
//
// The analysis backend extracts class hierarchies from uploaded source files
// and serves them as a class -> children mapping:
//
//	GET {base}/class_finding/get_classes/{file}
//	Authorization: Bearer <token>
//
//	{"classes": {"Animal": ["Dog", "Cat"], "Dog": ["Puppy"]}}
//
// [Client] talks to that backend with caching and retry. [FileSource] reads
// mapping documents from a local directory, and [Func] adapts a plain
// function, which is mostly useful in tests.
//
// A missing, null, or non-object "classes" field is not an error: it decodes
// to an empty mapping, which builds an empty graph.
package source
