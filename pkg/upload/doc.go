// Package upload provides a form field referring to a file already
// uploaded to S3.
//
// The browser uploads directly to the bucket (typically with a presigned
// URL) and puts the resulting object key in the form. Validation checks
// the object with HeadObject, so it runs concurrently with the other
// fields of the form:
//
//	cfg, _ := config.LoadDefaultConfig(ctx)
//	avatar := upload.NewField("avatar", s3.NewFromConfig(cfg), "my-bucket",
//	    upload.WithPrefix("uploads/"),
//	    upload.WithMaxSize(5<<20),
//	    upload.WithContentTypes("image/png", "image/jpeg"),
//	    upload.Required("Please upload an avatar"),
//	)
package upload
