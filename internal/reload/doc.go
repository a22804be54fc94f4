// Package reload pushes layout changes to preview browsers.
//
// A Hub holds the websocket connections of open preview pages and
// broadcasts small JSON messages to them; ClientScript is the snippet the
// preview page embeds to connect. A Watcher polls template directories and
// reports changed files so the preview server can re-render the layout.
package reload
