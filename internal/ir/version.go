package ir

// ShellVersion is the tqlsh version, recorded with each history session.
const ShellVersion = "0.1.0"
