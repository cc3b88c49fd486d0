// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package query asks questions against documents the backend has embedded.
//
// Three question paths are supported:
//
//   - AskSimple: a one-shot question over everything embedded, answered by
//     POST /search/ask/simple with the backend's default models.
//   - Ask with source IDs: a source-scoped chat session whose streamed
//     response (server-sent events) is collected into a single answer.
//   - NotebookAsk: the full notebook pipeline (create notebook, link source,
//     build context, create session, execute chat), mirroring the frontend's
//     "chat with notebook" flow.
//
// VectorSearch and TextSearch expose the underlying /search endpoint for
// callers that want raw hits instead of an answer.
package query
