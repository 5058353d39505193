// Package source provides detection sources for the scan orchestrator.
//
// Sources:
//   - StreamSource: one payload per line from a reader, such as the output
//     of a camera decoder. Stream mode, so repeats are debounced.
//   - GallerySource: a fixed list of payloads imported once.
//   - InboxSource: a drop directory; every file moved into it is imported
//     as one payload and then removed.
package source
