package scheduler

import "fmt"

// DataError 表示输入数据本身不合法（不可用时间段首尾颠倒、日期无法解析、
// 容量系数非正等），这类错误必须在建模之前被发现，不允许构建出一半的模型。
type DataError struct {
	Reason string
}

func (e *DataError) Error() string {
	return fmt.Sprintf("数据错误: %s", e.Reason)
}

// InfeasibleError 表示所有硬约束无法同时满足，排班无解是一种正常的业务结果，
// 不是程序缺陷，调用方应该把 Reason 原样反馈给用户。
type InfeasibleError struct {
	Reason string
}

func (e *InfeasibleError) Error() string {
	return fmt.Sprintf("排班无解: %s", e.Reason)
}
