/*
 * MIT License
 *
 * Copyright (c) 2026 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package lanemgr

import "github.com/nabbar/redislane/errors"

const (
	ErrConfigurationInvalid errors.CodeError = iota + errors.MinPkgLane
	ErrInitializationFailed
	ErrDestroyed
	ErrDriverFault
	// ErrPubSubReleaseNonmember is never actually returned: releasing a
	// pub/sub handle not in the tracker is a silent idempotent no-op by
	// design (see pubsub.Handle.Release), not an error. The code is kept
	// reserved so dashboards built against this taxonomy have a stable
	// slot for it even though the case never surfaces.
	ErrPubSubReleaseNonmember
)

var isCodeError = false

func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = errors.ExistInMapMessage(ErrConfigurationInvalid)
	errors.RegisterIdFctMessage(ErrConfigurationInvalid, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case errors.UnknownError:
		return ""
	case ErrConfigurationInvalid:
		return "lane count must be between 1 and 64, and strategy/metrics sink must not be nil"
	case ErrInitializationFailed:
		return "one or more lanes failed to open"
	case ErrDestroyed:
		return "manager has been destroyed"
	case ErrDriverFault:
		return "underlying driver reported a fault"
	case ErrPubSubReleaseNonmember:
		return "pub/sub handle is not a member of the tracker"
	}

	return ""
}
