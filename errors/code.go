/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
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

package errors

// Message builds the human-readable text for a CodeError. Each consumer
// package registers exactly one Message function, keyed at the floor of
// its reserved code range (see RegisterIdFctMessage).
type Message func(code CodeError) (message string)

// idMsgFct maps a package's floor CodeError to the Message function that
// covers every code in that package's range.
var idMsgFct = make(map[CodeError]Message)

// CodeError is a numeric failure class, similar in spirit to an HTTP
// status code. Each consumer package reserves a range of these (see
// modules.go) and defines its own constants within it.
type CodeError uint16

const (
	// UnknownError is the zero value: no specific code.
	UnknownError CodeError = 0

	// UnknownMessage is returned for any code with no registered message.
	UnknownMessage = "unknown error"
)

// Message returns the registered text for c, or UnknownMessage if c is
// UnknownError or no package has registered a function covering it.
func (c CodeError) Message() string {
	if c == UnknownError {
		return UnknownMessage
	}

	if f, ok := idMsgFct[floorFor(c)]; ok {
		if m := f(c); m != "" {
			return m
		}
	}

	return UnknownMessage
}

// Error builds an Error carrying c's code and message, wrapping any
// parent errors given.
func (c CodeError) Error(parent ...error) Error {
	return New(uint16(c), c.Message(), parent...)
}

// IfError builds an Error carrying c's code and message if any of e is
// non-nil, otherwise returns nil.
func (c CodeError) IfError(e ...error) Error {
	return IfError(uint16(c), c.Message(), e...)
}

// RegisterIdFctMessage registers fct as the Message function for every
// code from minCode up to (but not including) the next package's
// registered floor. Called once from each consumer package's init.
func RegisterIdFctMessage(minCode CodeError, fct Message) {
	idMsgFct[minCode] = fct
}

// ExistInMapMessage reports whether code resolves to a registered,
// non-empty message. Consumer packages call it at init time, before
// registering their own Message function, to record whether a message
// already covered their first code.
func ExistInMapMessage(code CodeError) bool {
	f, ok := idMsgFct[floorFor(code)]
	return ok && f(code) != ""
}

// floorFor finds the highest registered floor not greater than code, so
// a package only has to register once at its range's minimum.
func floorFor(code CodeError) CodeError {
	var floor CodeError
	for k := range idMsgFct {
		if k <= code && k > floor {
			floor = k
		}
	}
	return floor
}
