// paralang-upload uploads base locale .lang files to Paratranz as JSON.
package main

import "github.com/paralang/paralang/app"

func main() {
	app.Execute(app.NewUploadCmd())
}
