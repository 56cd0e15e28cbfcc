// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chainmap_test

import (
	"fmt"
	"hash/maphash"
	"strings"

	"github.com/aristanetworks/chainmap"
)

func ExampleMap_Iter() {
	m := chainmap.New(
		func(a, b string) bool { return a == b },
		maphash.String,
		chainmap.KeyElem[string, string]{"Avenue", "AVE"},
		chainmap.KeyElem[string, string]{"Street", "ST"},
		chainmap.KeyElem[string, string]{"Court", "CT"},
	)

	for i := m.Iter(); i.Next(); {
		fmt.Printf("The abbreviation for %q is %q\n", i.Key(), i.Elem())
	}
}

func ExampleMap_Ref() {
	counts := chainmap.New[string, int](
		func(a, b string) bool { return a == b },
		maphash.String,
	)
	for _, word := range strings.Fields("the quick fox jumps over the lazy dog the end") {
		*counts.Ref(word)++
	}

	n, _ := counts.Get("the")
	fmt.Println("the:", n)
	// Output: the: 3
}

func ExampleMap_Find() {
	m := chainmap.New(
		func(a, b string) bool { return a == b },
		maphash.String,
		chainmap.KeyElem[string, string]{"Avenue", "AVE"},
		chainmap.KeyElem[string, string]{"Street", "ST"},
	)

	if it := m.Find("Street"); it.Valid() {
		it.SetElem("STR")
	}
	if it := m.Find("Lane"); !it.Valid() {
		fmt.Println("no abbreviation for Lane")
	}

	abbr, _ := m.Get("Street")
	fmt.Println("Street:", abbr)
	// Output:
	// no abbreviation for Lane
	// Street: STR
}

func ExampleMap_At() {
	m := chainmap.New(
		func(a, b string) bool { return a == b },
		maphash.String,
		chainmap.KeyElem[string, string]{"Avenue", "AVE"},
	)

	if _, err := m.At("Lane"); err != nil {
		fmt.Println(err)
	}
	// Output: key Lane: key not found
}

func ExampleMap_String() {
	m := chainmap.New(
		func(a, b string) bool { return a == b },
		maphash.String,
		chainmap.KeyElem[string, string]{"Street", "ST"},
		chainmap.KeyElem[string, string]{"Avenue", "AVE"},
		chainmap.KeyElem[string, string]{"Court", "CT"},
	)

	fmt.Println(m)
	// Output: chainmap.Map[Avenue:AVE Court:CT Street:ST]
}
