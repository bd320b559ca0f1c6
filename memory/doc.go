// Package memory persists the text of a conversation between runs.
//
// Persistence model:
//   - only text messages are stored (role + text); tool blocks are transient.
//   - ToParams and FromParams convert between the stored form and SDK messages.
package memory
