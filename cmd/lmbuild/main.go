package main

import "github.com/rdbo/libmem-build/cmd/lmbuild/internal"

func main() {
	internal.Execute()
}
