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
	"errors"
	"fmt"
)

// ErrorHandler is a function that can be used to override govrt's default
// behavior of treating all messages with severity >= CE_Warning as errors.
// When an ErrorHandler is passed as an option to a govrt function, all
// warnings/errors emitted by that call will be passed to this function, which
// can decide wether the parameters correspond to an actual error or not.
//
// If the ErrorHandler returns nil, the parent function will not return an
// error. It is up to the ErrorHandler to log the message if needed.
//
// If the ErrorHandler returns an error, that error will be returned as-is to
// the caller of the parent function
type ErrorHandler func(ec ErrorCategory, code int, msg string) error

// error codes passed to ErrorHandlers, matching the usual CPLE numbering
const (
	codeAppDefined = 1
	codeFileIO     = 3
	codeOpenFailed = 4
	codeIllegalArg = 5
)

var (
	// ErrNotHandled is returned by a RasterDriver probing a locator that is
	// not in its format. Open tries the next driver when it sees it.
	ErrNotHandled = errors.New("dataset not handled by driver")
	// ErrNotApplicable is returned by a Mapper that determined the input
	// dataset is not of its target format/instrument. The consumer moves on
	// to the next Mapper.
	ErrNotApplicable = errors.New("mapper not applicable to dataset")
	// ErrUnknownWKV is returned by LookupWKV for a standard name absent from
	// the well known variable table.
	ErrUnknownWKV = errors.New("no such well known variable")
)

// emitError routes a message through the optional handler, falling back to
// the default policy of turning any >= CE_Warning message into an error.
func emitError(eh ErrorHandler, ec ErrorCategory, code int, msg string) error {
	if eh != nil {
		return eh(ec, code, msg)
	}
	if ec >= CE_Warning {
		return errors.New(msg)
	}
	return nil
}

func emitErrorf(eh ErrorHandler, ec ErrorCategory, code int, format string, args ...interface{}) error {
	return emitError(eh, ec, code, fmt.Sprintf(format, args...))
}

type errorCallback struct {
	fn ErrorHandler
}

// ErrLogger attaches an ErrorHandler to the call it is passed to
func ErrLogger(fn ErrorHandler) interface {
	VRTOption
	AddBandsOption
	AddPixelFunctionBandOption
	OpenOption
	MetadataOption
} {
	return errorCallback{fn}
}

func (ec errorCallback) setVRTOpt(o *vrtOpts) {
	o.errorHandler = ec.fn
}
func (ec errorCallback) setAddBandsOpt(o *addBandsOpts) {
	o.errorHandler = ec.fn
}
func (ec errorCallback) setAddPixelFunctionBandOpt(o *addPixFuncOpts) {
	o.errorHandler = ec.fn
}
func (ec errorCallback) setOpenOpt(o *openOpts) {
	o.errorHandler = ec.fn
}
func (ec errorCallback) setMetadataOpt(o *metadataOpts) {
	o.errorHandler = ec.fn
}
