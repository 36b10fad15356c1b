// Package homework models the Practicum homework-status payload and turns the
// latest homework into the chat message sent to the user.
package homework
