// Package upload registers PDF documents with the backend.
//
// A source can be created two ways: Upload sends a local file as a multipart
// request, Reference points the backend at a file already present in its
// uploads folder. Both return the backend's source records, normalized from
// the several response shapes the API produces.
//
// Find locates an existing source for a filename, tolerating the " (N)"
// suffixes the server appends when the same file is uploaded repeatedly;
// Upload uses it to skip re-uploading known files.
package upload
