package profile

import (
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
)

const (
	defaultPort       = "22"
	defaultMapper     = "encrypted_vault"
	defaultMountPoint = "/mnt/encrypted"
)

func notEmpty(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(field + " must not be empty")
		}
		return nil
	}
}

func validPort(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("port must not be empty")
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 65535 {
		return errors.New("port must be a number between 1 and 65535")
	}
	return nil
}

// PromptNew interactively collects a new profile. The form re-prompts on
// empty required fields, so an incomplete profile can never be returned.
func PromptNew() (Profile, error) {
	p := Profile{
		Port:       defaultPort,
		Mapper:     defaultMapper,
		MountPoint: defaultMountPoint,
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Profile name").
				Value(&p.Name).
				Validate(notEmpty("name")),
			huh.NewInput().
				Title("Hostname/IP").
				Value(&p.Hostname).
				Validate(notEmpty("hostname")),
			huh.NewInput().
				Title("Port").
				Value(&p.Port).
				Validate(validPort),
			huh.NewInput().
				Title("Username").
				Value(&p.Username).
				Validate(notEmpty("username")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&p.Password).
				Validate(notEmpty("password")),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Device").
				Description("Encrypted block device on the remote host, e.g. /dev/sdb1.").
				Value(&p.Device).
				Validate(notEmpty("device")),
			huh.NewInput().
				Title("Mapper name").
				Value(&p.Mapper).
				Validate(notEmpty("mapper")),
			huh.NewInput().
				Title("Remote mount point").
				Value(&p.MountPoint).
				Validate(notEmpty("mount_point")),
		),
	)

	if err := form.Run(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// PromptSelect asks the user to pick one of the saved profiles or to
// create a new one. It returns nil when a new profile should be created.
func PromptSelect(profiles []Profile) (*Profile, error) {
	options := make([]huh.Option[int], 0, len(profiles)+1)
	for i, p := range profiles {
		options = append(options, huh.NewOption(p.Name+" ("+p.Addr()+")", i))
	}
	options = append(options, huh.NewOption("Create new profile", -1))

	choice := -1
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Saved profiles").
				Options(options...).
				Value(&choice),
		),
	)
	if err := form.Run(); err != nil {
		return nil, err
	}
	if choice < 0 {
		return nil, nil
	}
	return &profiles[choice], nil
}
