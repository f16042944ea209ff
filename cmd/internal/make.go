package main

import (
	"fmt"
	"runtime"
	"strconv"

	"github.com/gen2brain/beeep"
	. "github.com/storozhukBM/build"
)

const coverageName = `coverage.out`
const binDirName = `bin`
const linterName = `golangci-lint`
const linterVersion = `1.64.8`

var parallelism = strconv.Itoa(runtime.NumCPU() * 4)

var b = NewBuild(BuildOptions{})
var commands = []Command{
	{`build`, b.RunCmd(Go, `build`, `./...`)},

	{`buildInlineBounds`, b.ShRunCmd(
		Go, `build`, `-gcflags='-m -d=ssa/check_bce/debug=1'`, `./lib/bump/...`,
	)},

	{`clean`, clean},
	{`cleanAll`, func() { clean(); cleanExecutables() }},
	{`test`, func() { test(); notify(`Tests finished`) }},
	{`bench`, func() { bench(); notify(`Benchmarks finished`) }},

	{`lint`, cilint},

	{`coverage`, func() {
		clean()
		b.Run(
			Go, `test`, `-coverpkg=./...`, `-coverprofile=`+coverageName,
			`./lib/bump/...`,
		)
		b.Run(Go, `tool`, `cover`, `-html=`+coverageName)
		notify(`Coverage report is ready`)
	}},
}

func test() {
	defer forceClean()
	b.Run(Go, `test`, `-parallel`, parallelism, `./...`)
}

func bench() {
	b.Run(
		Go, `test`, `-bench=.`, `-benchmem`,
		`./lib/bump/allocation_bench_test/...`,
	)
}

func clean() {
	b.Once(`cleanOnce`, func() { forceClean() })
}

func forceClean() {
	b.Run(Go, `clean`, `./...`)
	b.Run(`rm`, `-f`, coverageName)
	b.Run(`rm`, `-f`, `./example/main`)
}

func cleanExecutables() {
	b.Run(`rm`, `-rf`, binDirName)
}

// notify reports long target completion to the desktop, so you can switch
// away while tests or benchmarks run. Notification failure never fails
// the build.
func notify(message string) {
	notifyErr := beeep.Notify(`bumpalo make`, message, ``)
	if notifyErr != nil {
		b.Info(fmt.Sprintf("can't deliver notification: %v", notifyErr))
	}
}

func cilint() {
	executable, downloadErr := DownloadExecutable(DownloadExecutableOptions{
		ExecutableName:           linterName,
		Version:                  linterVersion,
		FileNameTemplate:         `golangci-lint-{version}-{os}-{arch}`,
		ReleaseBinaryUrlTemplate: `https://github.com/golangci/golangci-lint/releases/download/v{version}/{fileName}.{osArchiveType}`,
		BinaryPathInsideTemplate: `{fileName}/{executableName}{executableExtension}`,
		DestinationDirectory:     binDirName,
		InfoPrinter:              b.Info,
	})
	if downloadErr != nil {
		b.AddError(downloadErr)
		return
	}
	b.Run(executable, `-j`, parallelism, `run`)
}

func main() {
	b.Register(commands)
	b.BuildFromOsArgs()
}
