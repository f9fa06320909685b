package domain

import "strings"

// Tool names used as keys of the configured tool table.
const (
	StrongNameTool   = "sn"
	DisassemblerTool = "ildasm"
	AssemblerTool    = "ilasm"
)

// VerifyArgs builds the strong name tool arguments that verify a module's
// signature, ignoring any verification skip entries.
func VerifyArgs(path string) []string {
	return []string{"-vf", path}
}

// DisassembleArgs builds the disassembler arguments that write the module's
// intermediate language to ilPath.
func DisassembleArgs(path, ilPath string) []string {
	return []string{path, "/out=" + ilPath, "/nobar", "/utf8"}
}

// ReassembleArgs builds the assembler arguments that rebuild output from ilPath,
// signing it with keyPath when set. The output kind follows output's extension.
func ReassembleArgs(ilPath, output, keyPath string) []string {
	kind := "/dll"
	if strings.EqualFold(extension(output), ".exe") {
		kind = "/exe"
	}
	args := []string{ilPath, kind, "/quiet", "/output=" + output}
	if keyPath != "" {
		args = append(args, "/key="+keyPath)
	}
	return args
}

func extension(path string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 && !strings.ContainsAny(path[i:], `/\`) {
		return path[i:]
	}
	return ""
}
