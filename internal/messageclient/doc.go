// Package messageclient talks to the greetcardd message and photo service.
//
// This package handles:
//   - Fetching the greeting message and its photos
//   - Publishing messages and photos (used by greetcard compose)
//   - Falling back to a baked-in message when the service is absent or fails
//
// Example usage:
//
//	client := messageclient.New("http://localhost:8080")
//	provider := messageclient.NewProvider(client, messageclient.WithMessageID(id))
//	greeting, err := provider.Resolve(ctx)
//	if err != nil {
//	    // only possible when a service is required and no default is set
//	}
package messageclient
