// Package files discovers spreadsheet inputs on disk.
//
// Discovery lists decodable files in a directory and guesses which
// marketplace document each one holds from its name, so a folder of fresh
// exports can be reconciled without naming every file:
//
//	inputs, err := files.NewDiscovery("").DiscoverInputs("downloads")
//	orders := inputs[domain.DocumentOrders].Path
package files
