// Package client talks to the directory service.
//
// # Overview
//
//  1. AuthClient sends one datagram per call to the auth endpoint: Login
//     returns the issued token, Logout closes the session.
//  2. DirectoryClient opens one TCP connection per call to the directory
//     endpoint, writes the framed command, and reads the response until the
//     server closes the connection.
//
// # Error Handling
//
// Transport failures wrap ErrUnavailable. A "failed" auth reply becomes
// ErrUnauthorized (login) or ErrLogoutFailed (logout). Directory errors are
// returned as *RemoteError, which matches common.ErrGroupNotFound,
// common.ErrUserNotFound and common.ErrDuplicateGroupName via errors.Is.
//
// Every call honours the context deadline; without one the configured
// timeout applies.
package client
