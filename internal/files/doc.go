// Package files locates dataset files on disk.
//
// A dataset path may name a file or a directory. For a directory the most
// recently modified .csv or .xlsx file inside it is used, so a drop folder
// that receives a fresh export every month can be pointed at directly.
//
//	discovery := files.NewDiscovery(baseDir)
//	path, err := discovery.ResolveDataset("data")
package files
