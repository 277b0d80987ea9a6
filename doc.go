// Package lienzo is the entry point of the canvas engine.
//
// The engine edits canvases, the graph documents authored in the visual
// editor, and compiles them into recorridos, the linear flows executed by
// the runtime. Every operation on a document is a pure function living in
// the pkg/ tree:
//
//   - validate checks a canvas in draft or strict (publish) mode.
//   - normalize produces the canonical form of a canvas.
//   - repair reconnects unreachable end nodes.
//   - actions and macros apply semantic edits.
//   - convert compiles canvases and lifts recorridos back.
//
// Engine wraps those functions with logging and metrics and adds the
// workflows that talk to a persistence collaborator (ports.Store): Load,
// Save and Publish.
//
// # Usage
//
//	eng := lienzo.New(
//		lienzo.WithStore(memory.NewStore()),
//		lienzo.WithLogger(logger),
//	)
//	res, err := eng.Save(ctx, "curso-agua", canvas, "ana")
//	if err != nil {
//		return err // the store failed
//	}
//	if res.Conflict {
//		// someone else saved first; reload and retry
//	}
//
// Save never rejects a document for validation errors: the repaired and
// normalized canvas is stored and the issues are returned for display.
// Publish is the only gate; it refuses canvases with strict errors.
package lienzo
