// Package s3store provides the S3-compatible storage engine for uploadkit.
//
// The engine reads bucket, region, destination, and extra arguments from the
// resolved per-field configuration, so it drops into a broker like any other
// engine:
//
//	engine := s3store.New(
//		s3store.WithCredentials(os.Getenv("AWS_ACCESS_KEY_ID"), os.Getenv("AWS_SECRET_ACCESS_KEY")),
//	)
//
//	broker := uploadkit.New(
//		uploadkit.WithField(uploadkit.NewField("book")),
//		uploadkit.WithConfig(uploadkit.Config{
//			Engine: engine,
//			Bucket: "my-bucket",
//			Region: "eu-west-1",
//		}),
//	)
//
// Omit WithCredentials to use the AWS default credential chain. Custom
// endpoints (MinIO and friends) are supported via WithEndpoint.
//
// S3 clients are constructed lazily per region and cached for the life of
// the engine, so one engine can serve fields targeting different regions
// without rebuilding clients per request.
package s3store
