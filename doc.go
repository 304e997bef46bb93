// Package uploadkit is a pluggable multi-file upload broker: given a set of
// named form fields each carrying zero or more files, it filters, renames,
// and routes every file to one of several interchangeable storage engines,
// then aggregates the per-field outcomes into a single structured report
// that tolerates partial failure.
//
// # Basic Usage
//
// Declare the fields you expect and hand incoming requests to the broker:
//
//	broker := uploadkit.New(
//		uploadkit.WithField(uploadkit.NewField("book", uploadkit.WithRequired())),
//		uploadkit.WithField(uploadkit.NewField("covers",
//			uploadkit.WithMaxCount(3),
//			uploadkit.WithFieldConfig(uploadkit.Config{
//				Filters: []uploadkit.Filter{uploadkit.ImageOnly()},
//			}),
//		)),
//		uploadkit.WithConfig(uploadkit.Config{Destination: "uploads"}),
//	)
//	defer broker.Close()
//
//	http.HandleFunc("/upload", func(w http.ResponseWriter, r *http.Request) {
//		report := broker.Handle(r)
//		_ = json.NewEncoder(w).Encode(report)
//	})
//
// The report separates successes from failures per field. A single failed
// file in a multi-file field never aborts its siblings, and one field never
// aborts another.
//
// # Engines
//
// Three engines ship with the package: the local filesystem engine (the
// default), an in-memory engine that returns the raw bytes, and an
// S3-compatible engine in pkg/s3store. Engines are swappable globally or
// per field through Config.Engine and Config.EngineFactory.
//
// # Filters and Renames
//
// Admission filters decide per file whether it is uploaded at all; rejected
// files are silently dropped unless the drop empties a required field.
// Rename hooks rewrite file identity without touching content:
//
//	cfg := uploadkit.Config{
//		Filters: []uploadkit.Filter{
//			uploadkit.MaxSize(5 << 20),
//			uploadkit.AllowedTypes("image/*", "application/pdf"),
//		},
//		Rename: uploadkit.RandomName(),
//	}
//
// # Background Uploads
//
// With Config.Background set the upload is detached from the request: the
// engine returns an immediate in-flight outcome describing where the file
// will land and performs the transfer on the broker's worker pool. Outcomes
// of background uploads are never delivered back to the originating request;
// failures are only logged.
package uploadkit
