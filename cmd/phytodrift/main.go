/*
Copyright © 2026 the phytodrift authors.
This file is part of phytodrift.

phytodrift is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

phytodrift is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with phytodrift.  If not, see <http://www.gnu.org/licenses/>.
*/

// Command phytodrift is a command-line interface for the phytodrift
// particle settling and growth model.
package main

import (
	"fmt"
	"os"

	"github.com/mishahublog/phytodrift/phytodriftutil"
)

func main() {
	if err := phytodriftutil.Root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}
