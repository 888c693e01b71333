// Package domain contains the core value types and error taxonomy shared
// across the glanced runtime: records produced by sources, display content,
// and the sentinel errors returned by the public API.
//
// Types in this package carry no behavior beyond pure functions over their
// own fields. All state and concurrency live in internal/app and
// internal/render.
package domain
