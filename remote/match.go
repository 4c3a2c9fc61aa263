// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package remote

// Match calls the handler that corresponds to the tag of s and returns its
// result. Exactly one handler runs. A constant branch is written as a
// function returning that constant:
//
//	label := remote.Match(s,
//		func() string { return "idle" },
//		func() string { return "loading" },
//		func(v int) string { return strconv.Itoa(v) },
//		func(err error) string { return err.Error() },
//	)
//
// All four handlers must be non-nil.
func Match[T any, U any](
	s State[T],
	onNotAsked func() U,
	onLoading func() U,
	onSuccess func(T) U,
	onFailure func(error) U,
) U {
	var out U
	s.variant().accept(cases[T]{
		notAsked: func() { out = onNotAsked() },
		loading:  func() { out = onLoading() },
		success:  func(data T) { out = onSuccess(data) },
		failure:  func(err error) { out = onFailure(err) },
	})
	return out
}
