package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfileValidate(t *testing.T) {
	complete := Profile{
		Name:       "home",
		Hostname:   "203.0.113.5",
		Port:       "2222",
		Username:   "alice",
		Password:   "hunter2",
		Device:     "/dev/sdb1",
		Mapper:     "vault1",
		MountPoint: "/mnt/vault",
	}
	assert.NoError(t, complete.Validate())

	tests := []struct {
		field string
		clear func(*Profile)
	}{
		{"name", func(p *Profile) { p.Name = "" }},
		{"hostname", func(p *Profile) { p.Hostname = "" }},
		{"port", func(p *Profile) { p.Port = "" }},
		{"username", func(p *Profile) { p.Username = "" }},
		{"password", func(p *Profile) { p.Password = "" }},
		{"device", func(p *Profile) { p.Device = "" }},
		{"mapper", func(p *Profile) { p.Mapper = "" }},
		{"mount_point", func(p *Profile) { p.MountPoint = "" }},
	}
	for _, tt := range tests {
		t.Run("empty "+tt.field, func(t *testing.T) {
			p := complete
			tt.clear(&p)
			err := p.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestProfileAddr(t *testing.T) {
	p := Profile{Hostname: "203.0.113.5", Port: "2222"}
	assert.Equal(t, "203.0.113.5:2222", p.Addr())
}
