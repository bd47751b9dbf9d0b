// Copyright 2026 Blink Labs Software
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

package shardmock

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// Node mocks a ledger node serving the per-shard state and transaction endpoints.
// Each path replays a script of responses in order. Once a script is exhausted, its
// last response is repeated. Requests to paths without a script get a 404
type Node struct {
	server   *httptest.Server
	mutex    sync.Mutex
	scripts  map[string][]Response
	counts   map[string]int
	requests []string
}

// NewNode starts a new mock node. The caller must call Close when done
func NewNode() *Node {
	n := &Node{
		scripts: make(map[string][]Response),
		counts:  make(map[string]int),
	}
	n.server = httptest.NewServer(http.HandlerFunc(n.handle))
	return n
}

// URL returns the base URL of the node
func (n *Node) URL() string {
	return n.server.URL
}

// Close shuts down the node. Outstanding delayed responses are released
func (n *Node) Close() {
	n.server.CloseClientConnections()
	n.server.Close()
}

// Script appends responses to the script for the given path
func (n *Node) Script(path string, responses ...Response) {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	n.scripts[path] = append(n.scripts[path], responses...)
}

// Requests returns the number of requests received for the given path
func (n *Node) Requests(path string) int {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	return n.counts[path]
}

// RequestLog returns every requested path in arrival order
func (n *Node) RequestLog() []string {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	return append([]string{}, n.requests...)
}

// TotalRequests returns the number of requests received on any path
func (n *Node) TotalRequests() int {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	return len(n.requests)
}

func (n *Node) next(path string) (Response, bool) {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	idx := n.counts[path]
	n.counts[path]++
	n.requests = append(n.requests, path)
	script, ok := n.scripts[path]
	if !ok || len(script) == 0 {
		return Response{}, false
	}
	if idx >= len(script) {
		idx = len(script) - 1
	}
	return script[idx], true
}

func (n *Node) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	resp, ok := n.next(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if resp.Delay > 0 {
		timer := time.NewTimer(resp.Delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-r.Context().Done():
			return
		}
	}
	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(resp.Body))
}
