//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//

// Package screen provides the raw display and keyboard of the shell. A
// Console turns a character cell backend (termbox or tcell) into a
// teletype: text is written at the cursor, wraps at the right margin and
// scrolls at the bottom. A Stream does the same for plain terminals and
// pipes. Key reads support timeouts on top of the blocking backends.
package screen
