// Package clientcli provides a client library for talking to a tinyweb device
// or to the dev mirror served by "tinyweb dev".
//
// The device speaks a small HTTP subset: a plain-text listing at /filelist,
// write-once files under /file/{name}, and user routes under /api/. Every
// response closes the connection, so the client never reuses one.
//
// # Basic Usage
//
//	client, err := clientcli.New(&clientcli.Config{Endpoint: "http://192.168.4.1"})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	results, err := client.Upload(ctx, clientcli.UploadOptions{LocalPath: "./index.html"})
//
//	list, err := client.List(ctx)
//	fmt.Println(list.Available, "bytes free")
//
//	reply, err := client.Call(ctx, clientcli.CallOptions{Method: "GET", Route: "status"})
//
// # Profile Configuration
//
// Use profiles to manage several devices:
//
//	configFile, err := clientcli.LoadConfigFile(clientcli.DefaultConfigPath())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	profile, err := configFile.GetProfile("kitchen")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	client, err := clientcli.New(clientcli.ConfigFromProfile(profile))
//
// # Output Formatting
//
// Use formatters for human-readable or JSON output:
//
//	formatter := clientcli.NewFormatter(jsonOutput, quiet)
//	formatter.FormatList(os.Stdout, list)
package clientcli
