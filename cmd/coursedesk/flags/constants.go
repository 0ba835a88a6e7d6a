package flags

const Verbose = `verbose`
const VerboseShort = `v`
const Quiet = `quiet`
const QuietShort = `q`
const Config = `config`
const Semester = `semester`
const SemesterShort = `s`
const AddWithoutConfirmation = `yes`
const AddWithoutConfirmationShort = `y`
