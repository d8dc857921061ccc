package main

import (
	"os"
	"os/exec"

	"github.com/goyek/goyek/v2"
)

func goCmd(a *goyek.A, args ...string) {
	cmd := exec.Command("go", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		a.Error(err)
	}
}

var vet = goyek.Define(goyek.Task{
	Name:  "vet",
	Usage: "Run go vet on all packages",
	Action: func(a *goyek.A) {
		goCmd(a, "vet", "./...")
	},
})

var fmtTask = goyek.Define(goyek.Task{
	Name:  "fmt",
	Usage: "Report files that gofmt would change",
	Action: func(a *goyek.A) {
		out, err := exec.Command("gofmt", "-l", "cmd", "internal", "build").Output()
		if err != nil {
			a.Error(err)
			return
		}
		if len(out) > 0 {
			a.Errorf("unformatted files:\n%s", out)
		}
	},
})

var test = goyek.Define(goyek.Task{
	Name:  "test",
	Usage: "Run all tests",
	Action: func(a *goyek.A) {
		goCmd(a, "test", "-race", "./...")
	},
})

var _ = goyek.Define(goyek.Task{
	Name:  "all",
	Usage: "Run fmt, vet and test",
	Deps:  goyek.Deps{fmtTask, vet, test},
})

func main() {
	goyek.Main(os.Args[1:])
}
