// Copyright 2021 Airbus Defence and Space
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

package govrt

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
)

// VSIMemPrefix is the path prefix of the process-wide in-memory filesystem.
// Every virtual dataset claims one slot under this prefix at construction
// time and keeps it for the lifetime of the process unless VSIUnlink is
// called explicitly.
const VSIMemPrefix = "/vsimem/"

var vsimem = struct {
	sync.Mutex
	files map[string][]byte
}{files: make(map[string][]byte)}

// VSIWriteFile stores data verbatim under path, replacing any previous
// content. path must start with VSIMemPrefix.
func VSIWriteFile(path string, data []byte) error {
	if !strings.HasPrefix(path, VSIMemPrefix) {
		return fmt.Errorf("write %s: not a %s path", path, VSIMemPrefix)
	}
	vsimem.Lock()
	defer vsimem.Unlock()
	vsimem.files[path] = append([]byte(nil), data...)
	return nil
}

// VSIReadFile returns a copy of the content stored under path
func VSIReadFile(path string) ([]byte, error) {
	vsimem.Lock()
	defer vsimem.Unlock()
	data, ok := vsimem.files[path]
	if !ok {
		return nil, fmt.Errorf("read %s: no such file", path)
	}
	return append([]byte(nil), data...), nil
}

// VSIUnlink deletes path
func VSIUnlink(path string) error {
	vsimem.Lock()
	defer vsimem.Unlock()
	if _, ok := vsimem.files[path]; !ok {
		return fmt.Errorf("unlink %s: no such file", path)
	}
	delete(vsimem.files, path)
	return nil
}

// claimVSISlot reserves path as a dataset backing slot. Claiming a path that
// already exists is a fatal construction error: slot names must stay unique
// for the process lifetime.
func claimVSISlot(path string) error {
	vsimem.Lock()
	defer vsimem.Unlock()
	if _, ok := vsimem.files[path]; ok {
		return fmt.Errorf("claim %s: slot already exists", path)
	}
	vsimem.files[path] = nil
	return nil
}

const slotAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// newVRTFilename returns a fresh random /vsimem/ slot name for a dataset's
// serialized form. Uniqueness rests on the identifier's length and alphabet,
// not on retrying: a collision surfaces as a claim failure.
func newVRTFilename() string {
	b := make([]byte, 10)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Errorf("rng: %w", err))
	}
	for i := range b {
		b[i] = slotAlphabet[int(b[i])%len(slotAlphabet)]
	}
	return VSIMemPrefix + string(b) + ".vrt"
}

// VSIFile is a read handle on an in-memory file
type VSIFile struct {
	data []byte
	off  int
}

// VSIOpen opens path. path must be a /vsimem/ path
func VSIOpen(path string) (*VSIFile, error) {
	data, err := VSIReadFile(path)
	if err != nil {
		return nil, err
	}
	return &VSIFile{data: data}, nil
}

// Close closes the VSIFile. Must be called exactly once.
func (vf *VSIFile) Close() error {
	if vf.data == nil {
		return fmt.Errorf("already closed")
	}
	vf.data = nil
	return nil
}

var _ io.ReadCloser = &VSIFile{}

// Read is the standard io.Reader interface
func (vf *VSIFile) Read(buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}
	if vf.off >= len(vf.data) {
		return 0, io.EOF
	}
	n := copy(buf, vf.data[vf.off:])
	vf.off += n
	if n != len(buf) {
		return n, io.EOF
	}
	return n, nil
}

// Size returns the number of bytes stored in the file
func (vf *VSIFile) Size() (uint64, error) {
	if vf.data == nil {
		return 0, fmt.Errorf("already closed")
	}
	return uint64(len(vf.data)), nil
}
