// paralang-download renders Paratranz translations into .lang files.
package main

import "github.com/paralang/paralang/app"

func main() {
	app.Execute(app.NewDownloadCmd())
}
