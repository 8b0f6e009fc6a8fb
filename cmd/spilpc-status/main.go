package main

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"

	"github.com/jessevdk/go-flags"
	"github.com/snapcore/snapd/logger"

	"github.com/snapcore/spilpc"
	"github.com/snapcore/spilpc/pci"
	"github.com/snapcore/spilpc/securityfs"
)

var (
	hostEnv            pci.HostEnvironment = pci.DefaultEnv
	requireCapSysAdmin                     = pci.RequireCapSysAdmin
)

type options struct {
	Config  string         `long:"config" value-name:"PATH" description:"Path to the configuration file (default: /etc/spilpc/config.yaml)"`
	Variant spilpc.Variant `long:"variant" value-name:"VARIANT" description:"How to find the BIOS control register: auto, platform or fixed-offset"`
	Root    string         `long:"root" value-name:"NAME" description:"Name of the directory to publish status entries in"`

	Positional struct {
		Entries []string `positional-arg-name:"ENTRY" description:"Status entries to print (bioswe, ble or smm_bwp)"`
	} `positional-args:"true"`
}

func run(args []string, stdout io.Writer) error {
	var opts options
	if _, err := flags.ParseArgs(&opts, args); err != nil {
		return err
	}

	config, err := spilpc.LoadConfig(opts.Config)
	if err != nil {
		return err
	}
	if opts.Variant != "" {
		config.Variant = opts.Variant
	}
	if opts.Root != "" {
		config.Root = opts.Root
	}

	var requested []spilpc.ProtectionFlag
	for _, entry := range opts.Positional.Entries {
		flag, err := spilpc.ParseProtectionFlag(entry)
		if err != nil {
			return err
		}
		requested = append(requested, flag)
	}

	ctx, err := spilpc.NewPlatformContext(hostEnv, config.Variant)
	if err != nil {
		return err
	}

	sfs := securityfs.New(securityfs.WithAccessCheck(requireCapSysAdmin))
	root := config.RootFor(ctx)

	surface, err := spilpc.Publish(sfs, ctx, root, config.Flags...)
	if err != nil {
		return err
	}
	defer func() {
		if err := surface.Unpublish(); err != nil {
			logger.Noticef("cannot unpublish status entries: %v", err)
		}
	}()

	if len(requested) == 0 {
		requested = surface.Flags()
	}

	for _, flag := range requested {
		name := path.Join(root, flag.EntryName())
		data, err := fs.ReadFile(sfs, name)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%s: %s", name, data)
	}

	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		switch e := err.(type) {
		case *flags.Error:
			// flags already prints this
			if e.Type != flags.ErrHelp {
				os.Exit(1)
			}
		default:
			fmt.Fprintln(os.Stderr, "Cannot determine BIOS write protection status:", err)
			os.Exit(1)
		}
	}
}
