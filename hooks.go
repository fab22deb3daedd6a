package ch8

type Hook func(cpu *Cpu)

// AddBeforeStepHook adds a hook that runs before every step of the CPU
func (cpu *Cpu) AddBeforeStepHook(h Hook) int {
	cpu.beforeStepHooks = append(cpu.beforeStepHooks, h)

	return len(cpu.beforeStepHooks)
}

// AddAfterStepHook adds a hook that runs after every successful step of the CPU
func (cpu *Cpu) AddAfterStepHook(h Hook) int {
	cpu.afterStepHooks = append(cpu.afterStepHooks, h)

	return len(cpu.afterStepHooks)
}

// AddFaultHook adds a hook that runs once the CPU faults
func (cpu *Cpu) AddFaultHook(h Hook) int {
	cpu.faultHooks = append(cpu.faultHooks, h)

	return len(cpu.faultHooks)
}

func (cpu *Cpu) runHooks(hooks []Hook) {
	for _, h := range hooks {
		h(cpu)
	}
}
