package runner

import (
	"github.com/notargets/kernelcheck/runner/builder"
)

// AddParams are the add kernel's buffers in argument order
func AddParams(in1, in2, out []int32) []*builder.ParamBuilder {
	return []*builder.ParamBuilder{
		builder.Input("in1").Bind(in1),
		builder.Input("in2").Bind(in2),
		builder.Output("out").Bind(out),
	}
}

// AddKernelSource returns the reference OKL add kernel under the given name
func AddKernelSource(kernelName string) string {
	specs := make([]builder.ParamSpec, 0, 3)
	for _, p := range AddParams(make([]int32, 1), make([]int32, 1), make([]int32, 1)) {
		specs = append(specs, p.Spec)
	}
	return builder.GenerateKernelTemplate(kernelName, specs, "out[i] = in1[i] + in2[i];")
}
