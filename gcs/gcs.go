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

// Package gcs exposes objects on google cloud storage buckets to the driver
// layer through a block-cached osio adapter.
package gcs

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
	"github.com/airbusgeo/osio"
	osiogcs "github.com/airbusgeo/osio/gcs"
	"github.com/nansencenter/govrt"
)

type gcsHandler struct {
	ctx             context.Context
	prefix          string
	client          *storage.Client
	blockSize       string
	numCachedBlocks int
	adapter         *osio.Adapter
}

// Option is an option that can be passed to RegisterHandler
type Option func(o *gcsHandler)

// Prefix is the prefix that a locator must have in order to be handled by
// this handler. Defaults to "gs://", i.e. this handler will be used when
// calling govrt.Open("gs://mybucket/myfile.nc")
func Prefix(prefix string) Option {
	return func(o *gcsHandler) {
		o.prefix = prefix
	}
}

// Client sets the cloud.google.com/go/storage.Client that will be used
// by the handler
func Client(cl *storage.Client) Option {
	return func(o *gcsHandler) {
		o.client = cl
	}
}

// BlockSize sets the size of requests that will go out to the storage API,
// as an osio size string. Defaults to "1Mb"
func BlockSize(bs string) Option {
	return func(o *gcsHandler) {
		o.blockSize = bs
	}
}

// MaxCachedBlocks sets the number of blocks to keep in the lru cache.
// Defaults to 1000
func MaxCachedBlocks(n int) Option {
	if n < 1 {
		panic("invalid max cached blocks")
	}
	return func(o *gcsHandler) {
		o.numCachedBlocks = n
	}
}

// RegisterHandler registers a vsi handler so that drivers resolve bucket
// objects through cloud.google.com/go/storage APIs
func RegisterHandler(ctx context.Context, opts ...Option) error {
	handler := &gcsHandler{
		ctx:             ctx,
		prefix:          "gs://",
		blockSize:       "1Mb",
		numCachedBlocks: 1000,
	}
	for _, o := range opts {
		o(handler)
	}
	if handler.client == nil {
		cl, err := storage.NewClient(ctx)
		if err != nil {
			return fmt.Errorf("storage.newclient: %w", err)
		}
		handler.client = cl
	}
	gs, err := osiogcs.Handle(ctx, osiogcs.GCSClient(handler.client))
	if err != nil {
		return fmt.Errorf("osio.gcshandle: %w", err)
	}
	adapter, err := osio.NewAdapter(gs,
		osio.BlockSize(handler.blockSize),
		osio.NumCachedBlocks(handler.numCachedBlocks))
	if err != nil {
		return fmt.Errorf("osio.newadapter: %w", err)
	}
	handler.adapter = adapter
	return govrt.RegisterVSIHandler(handler.prefix, handler)
}

func (gcs *gcsHandler) VSIReader(key string) (govrt.VSIReader, error) {
	return gcsObjectReader{key: key, gcs: gcs}, nil
}

type gcsObjectReader struct {
	key string
	gcs *gcsHandler
}

func (v gcsObjectReader) ReadAt(buf []byte, off int64) (int, error) {
	return v.gcs.adapter.ReadAt(v.key, buf, off)
}

func (v gcsObjectReader) Size() (uint64, error) {
	size, err := v.gcs.adapter.Size(v.key)
	if err != nil {
		return 0, err
	}
	return uint64(size), nil
}
