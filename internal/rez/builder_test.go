package rez

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/reztools/rt/internal/descriptor"
)

func mayaDescriptor() *descriptor.Descriptor {
	return &descriptor.Descriptor{
		Name:       "maya",
		Command:    "maya",
		Requires:   []string{"maya-2023", "mtoa-5"},
		SourcePath: "/a/maya.rt",
	}
}

func TestBuild(t *testing.T) {
	b := Builder{Rez: Command{Prefix: []string{"rez"}}}

	tests := []struct {
		name     string
		args     []string
		flags    Flags
		want     []string
		detached bool
	}{
		{
			name: "plain",
			want: []string{"rez", "env", "-q", "maya-2023", "mtoa-5", "--", "maya"},
		},
		{
			name: "passthrough args",
			args: []string{"-file", "scene with spaces.ma"},
			want: []string{"rez", "env", "-q", "maya-2023", "mtoa-5", "--", "maya", "-file", "scene with spaces.ma"},
		},
		{
			name:  "ignore-cmd",
			args:  []string{"python", "-c", `print(1)`},
			flags: Flags{IgnoreCmd: true},
			want:  []string{"rez", "env", "-q", "maya-2023", "mtoa-5", "--", "python", "-c", "print(1)"},
		},
		{
			name:     "run-detached flag",
			flags:    Flags{RunDetached: true},
			want:     []string{"rez", "env", "-q", "maya-2023", "mtoa-5", "--", "maya"},
			detached: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := b.Build(mayaDescriptor(), tt.args, tt.flags)
			if err != nil {
				t.Fatalf("Build error: %v", err)
			}
			if plan.Invocation == nil {
				t.Fatal("expected an invocation")
			}
			if !reflect.DeepEqual(plan.Invocation.Args, tt.want) {
				t.Errorf("Args = %q, want %q", plan.Invocation.Args, tt.want)
			}
			if plan.Invocation.Detached != tt.detached {
				t.Errorf("Detached = %v, want %v", plan.Invocation.Detached, tt.detached)
			}
		})
	}
}

func TestBuild_PythonPrefixAndNoRequires(t *testing.T) {
	b := Builder{Rez: Command{Prefix: []string{"/opt/py/python3", "-m", "rez"}}}
	d := &descriptor.Descriptor{Name: "shell", Command: "bash", Requires: []string{}}

	plan, err := b.Build(d, nil, Flags{})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	want := []string{"/opt/py/python3", "-m", "rez", "env", "-q", "--", "bash"}
	if !reflect.DeepEqual(plan.Invocation.Args, want) {
		t.Errorf("Args = %q, want %q", plan.Invocation.Args, want)
	}
}

func TestBuild_DescriptorDetached(t *testing.T) {
	d := mayaDescriptor()
	d.RunDetached = true
	plan, err := Builder{Rez: Command{Prefix: []string{"rez"}}}.Build(d, nil, Flags{})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if !plan.Invocation.Detached {
		t.Error("expected detached invocation")
	}
}

func TestBuild_IgnoreCmdWithoutArgs(t *testing.T) {
	_, err := Builder{Rez: Command{Prefix: []string{"rez"}}}.Build(mayaDescriptor(), nil, Flags{IgnoreCmd: true})
	if !errors.Is(err, ErrNothingToRun) {
		t.Fatalf("err = %v, want ErrNothingToRun", err)
	}
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) || cmdErr.Plugin != "maya" {
		t.Errorf("err = %#v, want *CommandError for maya", err)
	}
}

func TestBuild_Print(t *testing.T) {
	plan, err := Builder{Rez: Command{Prefix: []string{"rez"}}}.Build(mayaDescriptor(), nil, Flags{Print: true, IgnoreCmd: true})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if plan.Invocation != nil {
		t.Error("print must not build an invocation")
	}

	var got map[string]interface{}
	if err := json.Unmarshal(plan.Print, &got); err != nil {
		t.Fatalf("print output is not JSON: %v\n%s", err, plan.Print)
	}
	for _, key := range []string{"name", "command", "short_help", "requires", "run_detached", "source_path"} {
		if _, ok := got[key]; !ok {
			t.Errorf("print output missing %q", key)
		}
	}
	if got["source_path"] != "/a/maya.rt" {
		t.Errorf("source_path = %v", got["source_path"])
	}
}

func TestBuild_DoesNotAliasInputs(t *testing.T) {
	prefix := []string{"rez"}
	d := mayaDescriptor()
	args := []string{"x"}
	plan, err := Builder{Rez: Command{Prefix: prefix}}.Build(d, args, Flags{})
	if err != nil {
		t.Fatal(err)
	}
	plan.Invocation.Args[0] = "changed"
	if prefix[0] != "rez" {
		t.Error("Build aliased the rez prefix")
	}
}
