// Package lib holds support code that does not belong to a single layer.
//
// view renders the embedded HTML pages and serves the static assets.
package lib
