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


// Package backend abstracts the HTTP transport to the notebook backend API.
//
// The package defines a single Transport interface covering the four request
// shapes the backend exposes: JSON GET, JSON POST, multipart file upload, and
// streaming POST for chat responses. Higher-level packages (upload, poll,
// query) depend only on this interface.
//
// # Implementation Packages
//
//   - backend/rest: production implementation over net/http
//   - backend/mock: test doubles for unit testing without a running backend
//
// Production constructors return the Transport interface rather than the
// concrete client type so callers cannot couple to net/http details. Mock
// constructors return concrete types so tests can inject behavior and assert
// on call counts.
package backend
