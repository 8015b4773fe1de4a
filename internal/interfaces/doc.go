// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces (internal/services/interfaces.go)
//
//   - BookStore: Catalog records and genre membership
//   - ShelfStore: Reading status keyed on the (user, book) pair
//   - FavouritesStore: Favourite membership keyed on the (user, book) pair
//   - UserStore: Users issued by the auth provider
//
// ## External Service Interfaces
//
//   - SubjectSearcher: Books by subject (Google Books)
//   - DownloadSearcher: Download links by title (Libgen)
//   - chat.Backend: Generative model sessions (Gemini)
//
// ## Activity Interfaces
//
//   - ActivityLogger: Non-blocking audit writes from services
//   - SnapshotWriter: Raw upstream payloads for debugging
//   - http.ActivityReader: Paginated activity listing
//   - tasks.ActivityPruner: Retention-based pruning per event group
//
// ## HTTP Interfaces (internal/http)
//
// Each controller declares the service methods it calls (CatalogService,
// ShelfService, UserService, ChatService, TaskQueue) so handlers can be
// tested with fakes.
//
// # Adding a New Catalog Source
//
//  1. Implement SubjectSearcher in internal/metadata/
//
//     type OpenLibraryClient struct {
//         httpClient *http.Client
//     }
//
//     func (c *OpenLibraryClient) SearchBySubject(ctx context.Context, subject string) ([]Volume, error)
//
//  2. Pass it as CatalogConfig.Subjects in entrypoint.go
//
// # Adding a New Background Task
//
//  1. Define the task and its QueueConfig in internal/tasks/
//
//  2. Register the queue with the client in entrypoint.go
//
//  3. Optionally schedule it from internal/scheduler/
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces
