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

package gcs

import (
	"context"
	"testing"

	"cloud.google.com/go/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func TestRegisterHandler(t *testing.T) {
	ctx := context.Background()
	st, err := storage.NewClient(ctx, option.WithoutAuthentication())
	if err != nil {
		t.Skipf("failed to create gcs client: %v", err)
	}
	err = RegisterHandler(ctx, Client(st), Prefix("testgs://"),
		BlockSize("64k"), MaxCachedBlocks(10))
	require.NoError(t, err)

	// a prefix can only be claimed once
	err = RegisterHandler(ctx, Client(st), Prefix("testgs://"))
	assert.Error(t, err)
}

func TestOptions(t *testing.T) {
	assert.Panics(t, func() { MaxCachedBlocks(0) })
}
