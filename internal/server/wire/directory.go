package wire

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/Jan540/account-manager/internal/common"
)

type Command string

const (
	CmdGetUsers        Command = "getusers"
	CmdGetGroups       Command = "getgroups"
	CmdAddGroup        Command = "addgroup"
	CmdAddToGroup      Command = "addtogroup"
	CmdRemoveGroup     Command = "removegroup"
	CmdRemoveFromGroup Command = "removefromgroup"
)

var commands = map[Command]struct{}{
	CmdGetUsers:        {},
	CmdGetGroups:       {},
	CmdAddGroup:        {},
	CmdAddToGroup:      {},
	CmdRemoveGroup:     {},
	CmdRemoveFromGroup: {},
}

// ParseCommand accepts only the names listed above, case-sensitively.
func ParseCommand(s string) (Command, error) {
	c := Command(s)
	if _, ok := commands[c]; !ok {
		return "", common.ErrUnknownCommand
	}
	return c, nil
}

func (c Command) String() string { return string(c) }

// MaxStringLen bounds the byte length of a framed string.
const MaxStringLen = 1 << 16

// ByteReader is what the framed readers need from a connection.
type ByteReader interface {
	io.Reader
	io.ByteReader
}

// NewReader wraps r for use with the framed readers.
func NewReader(r io.Reader) ByteReader {
	if br, ok := r.(ByteReader); ok {
		return br
	}
	return bufio.NewReader(r)
}

// WriteString writes s prefixed by its UTF-8 byte length as a uvarint.
func WriteString(w io.Writer, s string) error {
	buf := make([]byte, 0, binary.MaxVarintLen64+len(s))
	buf = binary.AppendUvarint(buf, uint64(len(s)))
	buf = append(buf, s...)
	_, err := w.Write(buf)
	return err
}

func ReadString(r ByteReader) (string, error) {
	n, err := binary.ReadUvarint(r)
	if err != nil {
		return "", fmt.Errorf("%w: string length: %v", common.ErrMalformedRequest, err)
	}
	if n > MaxStringLen {
		return "", fmt.Errorf("%w: string of %d bytes exceeds %d", common.ErrMalformedRequest, n, MaxStringLen)
	}

	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("%w: string body: %v", common.ErrMalformedRequest, err)
	}
	if !utf8.Valid(buf) {
		return "", fmt.Errorf("%w: string is not valid UTF-8", common.ErrMalformedRequest)
	}
	return string(buf), nil
}

func WriteInt32(w io.Writer, v int32) error {
	return binary.Write(w, binary.LittleEndian, v)
}

func ReadInt32(r io.Reader) (int32, error) {
	var v int32
	if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
		return 0, fmt.Errorf("%w: int32: %v", common.ErrMalformedRequest, err)
	}
	return v, nil
}

// DirectoryRequest is a command with its arguments. GroupName is used by
// addgroup; GroupID by every command that names a group; UserID by the
// membership commands.
type DirectoryRequest struct {
	Command   Command
	GroupName string
	GroupID   int32
	UserID    int32
}

// EncodeDirectoryRequest writes the command followed by the arguments it
// takes.
func EncodeDirectoryRequest(w io.Writer, req DirectoryRequest) error {
	if err := WriteString(w, req.Command.String()); err != nil {
		return err
	}

	switch req.Command {
	case CmdAddGroup:
		return WriteString(w, req.GroupName)
	case CmdRemoveGroup:
		return WriteInt32(w, req.GroupID)
	case CmdAddToGroup, CmdRemoveFromGroup:
		if err := WriteInt32(w, req.GroupID); err != nil {
			return err
		}
		return WriteInt32(w, req.UserID)
	}
	return nil
}

// ReadCommand reads the command name that opens every directory request.
func ReadCommand(r ByteReader) (Command, error) {
	s, err := ReadString(r)
	if err != nil {
		return "", err
	}
	return ParseCommand(s)
}

// ReadArguments reads the arguments that follow cmd.
func ReadArguments(r ByteReader, cmd Command) (DirectoryRequest, error) {
	req := DirectoryRequest{Command: cmd}
	var err error

	switch cmd {
	case CmdAddGroup:
		req.GroupName, err = ReadString(r)
	case CmdRemoveGroup:
		req.GroupID, err = ReadInt32(r)
	case CmdAddToGroup, CmdRemoveFromGroup:
		if req.GroupID, err = ReadInt32(r); err == nil {
			req.UserID, err = ReadInt32(r)
		}
	}
	return req, err
}

// DecodeDirectoryRequest reads a complete request.
func DecodeDirectoryRequest(r ByteReader) (DirectoryRequest, error) {
	cmd, err := ReadCommand(r)
	if err != nil {
		return DirectoryRequest{}, err
	}
	return ReadArguments(r, cmd)
}

// WriteResult writes v as a JSON document.
func WriteResult(w io.Writer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	_, err = w.Write(b)
	return err
}

// Texts existing clients match on. Errors without an entry go out as
// err.Error().
var errorTexts = []struct {
	err  error
	text string
}{
	{common.ErrGroupNotFound, "Group does not exist..."},
	{common.ErrUserNotFound, "User does not exist"},
	{common.ErrDuplicateGroupName, "Group name is already taken..."},
	{common.ErrUnknownCommand, "Invalid payload type..."},
}

// ErrorText returns the text written on the wire for err.
func ErrorText(err error) string {
	for _, e := range errorTexts {
		if errors.Is(err, e.err) {
			return e.text
		}
	}
	return err.Error()
}

// WriteError writes the error text in place of a result.
func WriteError(w io.Writer, err error) error {
	_, werr := io.WriteString(w, ErrorText(err))
	return werr
}

// RemoteError is an error reported by the server as plain text.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string { return e.Message }

// Unwrap maps the text back to the sentinel the server reported, so callers
// can use errors.Is.
func (e *RemoteError) Unwrap() error {
	for _, t := range errorTexts {
		if e.Message == t.text {
			return t.err
		}
	}
	if e.Message == common.ErrMalformedRequest.Error() || strings.HasPrefix(e.Message, common.ErrMalformedRequest.Error()+":") {
		return common.ErrMalformedRequest
	}
	return nil
}

// DecodeResult unmarshals a complete response body into v. A body that is
// not valid JSON for v is the server's error text.
func DecodeResult(body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		var syn *json.SyntaxError
		var typ *json.UnmarshalTypeError
		if errors.As(err, &syn) || errors.As(err, &typ) || len(body) == 0 {
			return &RemoteError{Message: string(body)}
		}
		return fmt.Errorf("decode result: %w", err)
	}
	return nil
}
