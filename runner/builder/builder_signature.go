package builder

import (
	"fmt"
	"strings"
)

// GenerateKernelSignature generates the parameter list for kernel functions,
// in the order the parameters are passed at run time
func GenerateKernelSignature(params []ParamSpec) string {
	args := make([]string, 0, len(params))
	for _, p := range params {
		constQualifier := ""
		if p.IsConst() {
			constQualifier = "const "
		}
		args = append(args, fmt.Sprintf("%sint_t* %s", constQualifier, p.Name))
	}
	return strings.Join(args, ",\n\t")
}

// GenerateKernelDeclaration generates a complete kernel function declaration
func GenerateKernelDeclaration(kernelName string, params []ParamSpec) string {
	return fmt.Sprintf("@kernel void %s(\n\t%s\n)",
		kernelName,
		GenerateKernelSignature(params))
}

// GenerateKernelTemplate wraps an element-wise body in the blocked @outer/@inner
// loops; the body sees the element index as i and runs only for i < N
func GenerateKernelTemplate(kernelName string, params []ParamSpec, body string) string {
	var sb strings.Builder

	sb.WriteString(GenerateKernelDeclaration(kernelName, params))
	sb.WriteString(" {\n")
	sb.WriteString("\tfor (int b = 0; b < NBLOCKS; ++b; @outer) {\n")
	sb.WriteString("\t\tfor (int t = 0; t < BLOCK; ++t; @inner) {\n")
	sb.WriteString("\t\t\tconst int i = b * BLOCK + t;\n")
	sb.WriteString("\t\t\tif (i < N) {\n")

	// Indent the body
	for _, line := range strings.Split(strings.TrimSpace(body), "\n") {
		sb.WriteString("\t\t\t\t")
		sb.WriteString(strings.TrimSpace(line))
		sb.WriteString("\n")
	}

	sb.WriteString("\t\t\t}\n")
	sb.WriteString("\t\t}\n")
	sb.WriteString("\t}\n")
	sb.WriteString("}\n")

	return sb.String()
}
