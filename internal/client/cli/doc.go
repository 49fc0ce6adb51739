// Package cli implements the interactive administrator shell.
//
// The shell logs in over the auth endpoint and then lists and edits the
// directory through the directory endpoint. Passwords are read without echo
// and turned into the login hash locally; only the hash is sent.
//
// Commands
//
//	login [name]               authenticate (prompts for the password)
//	logout                     end the session
//	users                      list users
//	groups                     list groups and their members
//	addgroup <name>            create a group
//	rmgroup <gid>              delete a group
//	addmember <gid> <uid>      add a user to a group
//	rmmember <gid> <uid>       remove a user from a group
//	hash [name]                print the login hash for a password
//	help                       list commands
//	exit | quit                leave the shell
package cli
